/* Package flatdoc flattens markdown into plain text plus position-indexed
style annotations.

Rich-text hosts like presentation text frames can only format a sub-range of
a flat string, addressed by offset and length; they have no notion of nested
markup. A Document is the bridge: its Text carries no markup syntax, while
its Spans and Bullets say which (offset, length) windows of that text should
be bold, italic, heading sized, or shown as list items.

Offsets are computed from the same cursor that builds Text, so every span
exactly covers its rendered text rather than its markdown source.

*/
package flatdoc

// Style is a set of character styles.
type Style uint8

const (
	Bold Style = 1 << iota
	Italic
)

// HeadingLevel is a heading depth in [1, 3]; zero means not a heading.
type HeadingLevel int

// MaxHeadingLevel is the deepest distinct heading level; deeper headings
// are clamped to it.
const MaxHeadingLevel HeadingLevel = 3

// StyleSpan marks a window of Document.Text for styling.
type StyleSpan struct {
	Start   int          `json:"start"`
	Length  int          `json:"length"`
	Style   Style        `json:"style"`
	Heading HeadingLevel `json:"heading,omitempty"`
}

// BulletBlock marks the window of a single list item, including its
// trailing line separator.
type BulletBlock struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// Document is the result of flattening markdown.
type Document struct {
	Text    string        `json:"text"`
	Unit    Unit          `json:"unit"`
	Spans   []StyleSpan   `json:"spans"`   // in the order their markup closes
	Bullets []BulletBlock `json:"bullets"` // one per list item, in item order
}

// Len returns the length of the document text in its units.
func (doc Document) Len() int { return doc.Unit.Len(doc.Text) }

// Covered returns the text within the given window.
func (doc Document) Covered(start, length int) string {
	return doc.Unit.Slice(doc.Text, start, length)
}

func clampHeading(depth int) HeadingLevel {
	if depth < 1 {
		return 1
	}
	if lvl := HeadingLevel(depth); lvl < MaxHeadingLevel {
		return lvl
	}
	return MaxHeadingLevel
}
