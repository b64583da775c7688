package flatdoc

import (
	"fmt"
	"io"
)

// Format writes a textual representation of the receiver, providing improved
// fmt.Printf display. Produces a multi-line listing of the text and every
// span and bullet, along with the text each covers, when formatted with
// `%+v`; a terse summary otherwise.
func (doc Document) Format(f fmt.State, _ rune) {
	if !f.Flag('+') {
		fmt.Fprintf(f, "Document<%v %v, %v spans, %v bullets>",
			doc.Len(), doc.Unit, len(doc.Spans), len(doc.Bullets))
		return
	}
	fmt.Fprintf(f, "text: %q", doc.Text)
	for i, span := range doc.Spans {
		fmt.Fprintf(f, "\n%v. span %v %q", i+1, span, doc.Covered(span.Start, span.Length))
	}
	for i, block := range doc.Bullets {
		fmt.Fprintf(f, "\n%v. bullet %v %q", i+1, block, doc.Covered(block.Start, block.Length))
	}
}

// Format writes "@start+length style [hN]".
func (span StyleSpan) Format(f fmt.State, _ rune) {
	fmt.Fprintf(f, "@%v+%v %v", span.Start, span.Length, span.Style)
	if span.Heading != 0 {
		fmt.Fprintf(f, " h%d", int(span.Heading))
	}
}

// Format writes "@start+length".
func (block BulletBlock) Format(f fmt.State, _ rune) {
	fmt.Fprintf(f, "@%v+%v", block.Start, block.Length)
}

// Format writes a "|" separated list of style names, or "plain".
func (s Style) Format(f fmt.State, _ rune) {
	switch s {
	case 0:
		io.WriteString(f, "plain")
	case Bold:
		io.WriteString(f, "bold")
	case Italic:
		io.WriteString(f, "italic")
	case Bold | Italic:
		io.WriteString(f, "bold|italic")
	default:
		fmt.Fprintf(f, "InvalidStyle%d", uint8(s))
	}
}

// MarshalText returns the Format rendering of s, e.g. "bold|italic".
func (s Style) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprint(s)), nil
}
