/* Package mdtoken provides a small, closed markdown token tree along with
tokenizers that build it from the output of full markdown parsers.

The tree only distinguishes the constructs that downstream flattening cares
about: headings, paragraphs, lists, blank lines, strong and emphasis spans,
inline code, links, and plain text. Everything else is carried as an Other
token holding whatever literal text or raw source the parser had for it, so
that no content is silently dropped.

*/
package mdtoken

// Node is implemented by every token type in this package; the set is
// closed, so a type switch over it can be exhaustive.
type Node interface {
	node()
}

// Block is a block-level token.
type Block interface {
	Node
	block()
}

// Inline is an inline-level token.
type Inline interface {
	Node
	inline()
}

// Tokenizer parses markdown source into a block token sequence.
type Tokenizer interface {
	Tokenize(src []byte) []Block
}

// TokenizerFunc is a functional adaptor for Tokenizer.
type TokenizerFunc func(src []byte) []Block

// Tokenize calls the receiver function pointer.
func (f TokenizerFunc) Tokenize(src []byte) []Block { return f(src) }

type (
	// Heading is an ATX or setext heading; Depth is whatever level the
	// parser reported, it is not clamped here.
	Heading struct {
		Depth   int
		Content []Inline
	}

	Paragraph struct {
		Content []Inline
	}

	List struct {
		Ordered bool
		Items   []Item
	}

	// Item is one list item. Its children are typically a single Paragraph,
	// but may be any Inline, or an Other standing in for unsupported
	// nested structure.
	Item struct {
		Children []Node
	}

	// BlankLine is a run of blank lines between blocks.
	BlankLine struct{}
)

type (
	Strong struct {
		Content []Inline
	}

	Emph struct {
		Content []Inline
	}

	Code struct {
		Text string
	}

	// Link carries its label as Content; Destination is kept for
	// completeness, but flattening only renders the label.
	Link struct {
		Destination string
		Content     []Inline
	}

	// Text is a plain text run. Some parsers wrap runs of inline structure
	// in a text token (e.g. tight list item bodies); such a token has
	// non-empty Content, and its Text is then the source it covers.
	Text struct {
		Text    string
		Content []Inline
	}

	// Space is an inline whitespace token, rendered as a single space.
	Space struct{}
)

// Other is any block or inline construct without dedicated handling. Type
// names the parser's own kind for it. Text is its literal (rendered) text,
// and Raw its markdown source, when known; an empty string means absent.
type Other struct {
	Type string
	Text string
	Raw  string
}

func (Heading) node()   {}
func (Paragraph) node() {}
func (List) node()      {}
func (Item) node()      {}
func (BlankLine) node() {}
func (Strong) node()    {}
func (Emph) node()      {}
func (Code) node()      {}
func (Link) node()      {}
func (Text) node()      {}
func (Space) node()     {}
func (Other) node()     {}

func (Heading) block()   {}
func (Paragraph) block() {}
func (List) block()      {}
func (BlankLine) block() {}
func (Other) block()     {}

func (Strong) inline() {}
func (Emph) inline()   {}
func (Code) inline()   {}
func (Link) inline()   {}
func (Text) inline()   {}
func (Space) inline()  {}
func (Other) inline()  {}

// Literal returns the text an Other token should contribute: its Text if
// any, else its Raw source, else the empty string.
// An empty Text counts as absent, so it never yields a bare paragraph break.
func (o Other) Literal() string {
	if o.Text != "" {
		return o.Text
	}
	return o.Raw
}
