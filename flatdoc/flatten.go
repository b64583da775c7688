package flatdoc

import (
	"strings"

	"github.com/jcorbin/flatmark/internal/mdtoken"
)

const (
	paragraphBreak = "\n\n"
	lineBreak      = "\n"
)

// Flattener converts markdown into Documents.
// The zero value tokenizes with blackfriday and counts UTF-16 code units.
type Flattener struct {
	Tokenizer mdtoken.Tokenizer
	Unit      Unit
}

// Flatten is Flattener{}.Flatten.
func Flatten(markdown string) Document {
	return Flattener{}.Flatten(markdown)
}

// Flatten tokenizes markdown and flattens the resulting tree.
// It is deterministic and total: anything the tokenizer cannot make sense of
// ends up as literal text.
func (fl Flattener) Flatten(markdown string) Document {
	return fl.FlattenBlocks(fl.Tokenize(markdown))
}

// Tokenize runs the configured tokenizer, recovering any panic it raises by
// returning the whole source as a single unparsed block.
func (fl Flattener) Tokenize(markdown string) (blocks []mdtoken.Block) {
	tok := fl.Tokenizer
	if tok == nil {
		tok = mdtoken.Blackfriday
	}
	defer func() {
		if e := recover(); e != nil {
			blocks = []mdtoken.Block{mdtoken.Other{Type: "unparsed", Raw: markdown}}
		}
	}()
	return tok.Tokenize([]byte(markdown))
}

// FlattenBlocks flattens an already tokenized tree.
func (fl Flattener) FlattenBlocks(blocks []mdtoken.Block) Document {
	acc := flattener{unit: fl.Unit}
	for _, b := range blocks {
		acc.block(b)
	}
	return Document{
		Text:    acc.text.String(),
		Unit:    acc.unit,
		Spans:   acc.spans,
		Bullets: acc.bullets,
	}
}

// flattener accumulates flat text; pos is always the unit length of text.
type flattener struct {
	unit    Unit
	text    strings.Builder
	pos     int
	spans   []StyleSpan
	bullets []BulletBlock
}

func (fl *flattener) append(s string) {
	fl.text.WriteString(s)
	fl.pos += fl.unit.Len(s)
}

// span records a style over [start, pos), unless that is empty.
func (fl *flattener) span(start int, style Style, heading HeadingLevel) {
	if n := fl.pos - start; n > 0 {
		fl.spans = append(fl.spans, StyleSpan{
			Start:   start,
			Length:  n,
			Style:   style,
			Heading: heading,
		})
	}
}

func (fl *flattener) block(b mdtoken.Block) {
	switch t := b.(type) {

	case mdtoken.Heading:
		start := fl.pos
		fl.inlines(t.Content)
		fl.span(start, Bold, clampHeading(t.Depth))
		fl.append(paragraphBreak)

	case mdtoken.Paragraph:
		fl.inlines(t.Content)
		fl.append(paragraphBreak)

	case mdtoken.List:
		for _, item := range t.Items {
			fl.item(item)
		}
		fl.append(lineBreak)

	case mdtoken.BlankLine:
		fl.append(lineBreak)

	case mdtoken.Other:
		if s := t.Literal(); s != "" {
			fl.append(s)
			fl.append(paragraphBreak)
		}
	}
}

func (fl *flattener) item(item mdtoken.Item) {
	start := fl.pos
	fl.itemBody(item)
	fl.append(lineBreak)
	if n := fl.pos - start; n > 0 {
		fl.bullets = append(fl.bullets, BulletBlock{Start: start, Length: n})
	}
}

func (fl *flattener) itemBody(item mdtoken.Item) {
	for _, child := range item.Children {
		switch t := child.(type) {
		case mdtoken.Paragraph:
			// inline only, no nested paragraph break
			fl.inlines(t.Content)
		case mdtoken.Inline:
			fl.inline(t)
		case mdtoken.Block:
			fl.literal(t)
		}
	}
}

func (fl *flattener) inlines(content []mdtoken.Inline) {
	for _, in := range content {
		fl.inline(in)
	}
}

func (fl *flattener) inline(in mdtoken.Inline) {
	switch t := in.(type) {

	case mdtoken.Strong:
		start := fl.pos
		fl.inlines(t.Content)
		fl.span(start, Bold, 0)

	case mdtoken.Emph:
		start := fl.pos
		fl.inlines(t.Content)
		fl.span(start, Italic, 0)

	case mdtoken.Code:
		fl.append(t.Text)

	case mdtoken.Link:
		// label only; the destination has no rendering
		fl.inlines(t.Content)

	case mdtoken.Text:
		if len(t.Content) > 0 {
			fl.inlines(t.Content)
		} else {
			fl.append(t.Text)
		}

	case mdtoken.Space:
		fl.append(" ")

	case mdtoken.Other:
		fl.append(t.Literal())
	}
}

// literal renders a block nested within a list item as a single inline
// unit, without breaks or bullet blocks of its own.
func (fl *flattener) literal(b mdtoken.Block) {
	switch t := b.(type) {
	case mdtoken.Heading:
		fl.inlines(t.Content)
	case mdtoken.List:
		for _, item := range t.Items {
			fl.append(lineBreak)
			fl.itemBody(item)
		}
	case mdtoken.Other:
		fl.append(t.Literal())
	}
}
