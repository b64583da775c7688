package mdtoken

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Goldmark tokenizes with github.com/yuin/goldmark, using its default
// CommonMark parser.
var Goldmark Tokenizer = TokenizerFunc(tokenizeGoldmark)

func tokenizeGoldmark(src []byte) []Block {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	gm := gmConverter{src}
	var blocks []Block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		blocks = append(blocks, gm.block(n))
	}
	return blocks
}

type gmConverter struct {
	src []byte
}

func (gm gmConverter) block(n ast.Node) Block {
	switch node := n.(type) {

	case *ast.Heading:
		return Heading{Depth: node.Level, Content: trimTrailingBreak(gm.inlines(node))}

	case *ast.Paragraph:
		return Paragraph{Content: trimTrailingBreak(gm.inlines(node))}

	case *ast.TextBlock:
		return Paragraph{Content: trimTrailingBreak(gm.inlines(node))}

	case *ast.List:
		list := List{Ordered: node.IsOrdered()}
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			if li, ok := item.(*ast.ListItem); ok {
				list.Items = append(list.Items, gm.item(li))
			}
		}
		return list

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return Other{Type: "code", Text: strings.TrimRight(gm.lines(n), "\n")}

	case *ast.HTMLBlock:
		return Other{Type: "html", Raw: gm.lines(n)}

	case *ast.ThematicBreak:
		return Other{Type: "hr", Raw: "---"}

	default:
		return Other{Type: strings.ToLower(n.Kind().String()), Text: gm.collect(n)}
	}
}

func (gm gmConverter) item(li *ast.ListItem) (it Item) {
	for c := li.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Paragraph:
			it.Children = append(it.Children, Paragraph{Content: trimTrailingBreak(gm.inlines(node))})
		case *ast.TextBlock:
			// tight item bodies are a text run wrapping inline structure
			it.Children = append(it.Children, Text{
				Text:    gm.lines(node),
				Content: trimTrailingBreak(gm.inlines(node)),
			})
		case *ast.List:
			it.Children = append(it.Children, Other{Type: "list", Text: "\n" + gm.collect(node)})
		default:
			it.Children = append(it.Children, gm.block(c))
		}
	}
	return it
}

func (gm gmConverter) inlines(parent ast.Node) (content []Inline) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		content = append(content, gm.inline(n)...)
	}
	return content
}

func (gm gmConverter) inline(n ast.Node) []Inline {
	switch node := n.(type) {

	case *ast.Emphasis:
		if node.Level >= 2 {
			return []Inline{Strong{Content: gm.inlines(node)}}
		}
		return []Inline{Emph{Content: gm.inlines(node)}}

	case *ast.CodeSpan:
		return []Inline{Code{Text: gm.collect(node)}}

	case *ast.Link:
		return []Inline{Link{Destination: string(node.Destination), Content: gm.inlines(node)}}

	case *ast.AutoLink:
		label := string(node.Label(gm.src))
		return []Inline{Link{Destination: string(node.URL(gm.src)), Content: []Inline{Text{Text: label}}}}

	case *ast.Image:
		return []Inline{Text{Content: gm.inlines(node)}}

	case *ast.Text:
		out := []Inline{Text{Text: string(node.Segment.Value(gm.src))}}
		if node.SoftLineBreak() || node.HardLineBreak() {
			out = append(out, Text{Text: "\n"})
		}
		return out

	case *ast.String:
		return []Inline{Text{Text: string(node.Value)}}

	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			buf.Write(seg.Value(gm.src))
		}
		return []Inline{Other{Type: "html", Raw: buf.String()}}

	default:
		return []Inline{Other{Type: strings.ToLower(n.Kind().String()), Text: gm.collect(n)}}
	}
}

// lines returns the source lines of a block node.
func (gm gmConverter) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(gm.src))
	}
	return buf.String()
}

// collect gathers all text under n, placing each block on its own line.
func (gm gmConverter) collect(n ast.Node) string {
	var buf bytes.Buffer
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if c.Type() == ast.TypeBlock {
			if b := buf.Bytes(); len(b) > 0 && b[len(b)-1] != '\n' {
				buf.WriteByte('\n')
			}
			if !c.HasChildren() {
				buf.WriteString(gm.lines(c))
			}
			return ast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(gm.src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(node.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimRight(buf.String(), "\n")
}
