package mdtoken

import (
	"fmt"
	"io"

	"github.com/jcorbin/flatmark/internal/textio"
)

// Dump writes an indented outline of the given token tree, one token per
// line, e.g.:
//
//	Heading depth=1
//	  Text "Title"
//	List
//	  Item
//	    Paragraph
//	      Text "one"
//
// It returns the first write error encountered.
func Dump(w io.Writer, blocks []Block) error {
	ew := &textio.ErrWriter{Writer: w}
	for _, b := range blocks {
		dumpNode(ew, b)
	}
	return ew.Err
}

func dumpNode(w io.Writer, n Node) {
	fmt.Fprintf(w, "%+v\n", formatNode{n})

	var children []Node
	switch t := n.(type) {
	case Heading:
		children = inlineNodes(t.Content)
	case Paragraph:
		children = inlineNodes(t.Content)
	case List:
		for _, item := range t.Items {
			children = append(children, item)
		}
	case Item:
		children = t.Children
	case Strong:
		children = inlineNodes(t.Content)
	case Emph:
		children = inlineNodes(t.Content)
	case Link:
		children = inlineNodes(t.Content)
	case Text:
		children = inlineNodes(t.Content)
	}
	if len(children) == 0 {
		return
	}

	sub := textio.PrefixWriter("  ", w)
	defer sub.Close()
	for _, child := range children {
		dumpNode(sub, child)
	}
}

func inlineNodes(content []Inline) []Node {
	nodes := make([]Node, len(content))
	for i, in := range content {
		nodes[i] = in
	}
	return nodes
}

type formatNode struct{ Node }

// Format writes a terse single-line description of the wrapped node,
// including its payload when formatted with `%+v`.
func (fn formatNode) Format(f fmt.State, _ rune) {
	verbose := f.Flag('+')
	switch t := fn.Node.(type) {
	case Heading:
		fmt.Fprintf(f, "Heading depth=%v", t.Depth)
	case Paragraph:
		io.WriteString(f, "Paragraph")
	case List:
		if t.Ordered {
			io.WriteString(f, "OrderedList")
		} else {
			io.WriteString(f, "List")
		}
	case Item:
		io.WriteString(f, "Item")
	case BlankLine:
		io.WriteString(f, "BlankLine")
	case Strong:
		io.WriteString(f, "Strong")
	case Emph:
		io.WriteString(f, "Emph")
	case Code:
		io.WriteString(f, "Code")
		if verbose {
			fmt.Fprintf(f, " %q", t.Text)
		}
	case Link:
		io.WriteString(f, "Link")
		if verbose {
			fmt.Fprintf(f, " dest=%q", t.Destination)
		}
	case Text:
		io.WriteString(f, "Text")
		if verbose && len(t.Content) == 0 {
			fmt.Fprintf(f, " %q", t.Text)
		}
	case Space:
		io.WriteString(f, "Space")
	case Other:
		fmt.Fprintf(f, "Other<%v>", t.Type)
		if verbose {
			if t.Text != "" {
				fmt.Fprintf(f, " text=%q", t.Text)
			}
			if t.Raw != "" {
				fmt.Fprintf(f, " raw=%q", t.Raw)
			}
		}
	default:
		fmt.Fprintf(f, "InvalidNode<%T>", t)
	}
}
