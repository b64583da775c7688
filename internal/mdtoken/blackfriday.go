package mdtoken

import (
	"bytes"
	"strings"

	"github.com/russross/blackfriday"
)

// Extensions is the blackfriday extension set used by the Blackfriday
// tokenizer.
const Extensions = 0 |
	blackfriday.NoIntraEmphasis |
	blackfriday.FencedCode |
	blackfriday.Autolink |
	blackfriday.Strikethrough |
	blackfriday.SpaceHeadings |
	blackfriday.BackslashLineBreak

// Blackfriday tokenizes with github.com/russross/blackfriday.
var Blackfriday Tokenizer = TokenizerFunc(tokenizeBlackfriday)

func tokenizeBlackfriday(src []byte) []Block {
	if n := len(src); n > 0 && src[n-1] != '\n' {
		src = append(src[:n:n], '\n')
	}
	md := blackfriday.New(blackfriday.WithExtensions(Extensions))
	return bfBlocks(md.Parse(src))
}

func bfBlocks(parent *blackfriday.Node) (blocks []Block) {
	for n := parent.FirstChild; n != nil; n = n.Next {
		blocks = append(blocks, bfBlock(n))
	}
	return blocks
}

func bfBlock(n *blackfriday.Node) Block {
	switch n.Type {

	case blackfriday.Heading:
		return Heading{Depth: n.Level, Content: trimTrailingBreak(bfInlines(n))}

	case blackfriday.Paragraph:
		return Paragraph{Content: trimTrailingBreak(bfInlines(n))}

	case blackfriday.List:
		list := List{Ordered: n.ListFlags&blackfriday.ListTypeOrdered != 0}
		for item := n.FirstChild; item != nil; item = item.Next {
			if item.Type == blackfriday.Item {
				list.Items = append(list.Items, bfItem(item))
			}
		}
		return list

	case blackfriday.CodeBlock:
		return Other{Type: "code", Text: strings.TrimRight(string(n.Literal), "\n")}

	case blackfriday.HTMLBlock:
		return Other{Type: "html", Raw: string(n.Literal)}

	case blackfriday.HorizontalRule:
		return Other{Type: "hr", Raw: "---"}

	// TODO table support, should rows flatten like list items?

	default:
		return Other{Type: strings.ToLower(n.Type.String()), Text: bfCollect(n)}
	}
}

func bfItem(item *blackfriday.Node) (it Item) {
	for c := item.FirstChild; c != nil; c = c.Next {
		switch c.Type {
		case blackfriday.Paragraph:
			it.Children = append(it.Children, Paragraph{Content: trimTrailingBreak(bfInlines(c))})
		case blackfriday.List:
			// nested lists collapse into their item text, one line per sub-item
			it.Children = append(it.Children, Other{Type: "list", Text: "\n" + bfCollect(c)})
		default:
			it.Children = append(it.Children, bfBlock(c))
		}
	}
	return it
}

func bfInlines(parent *blackfriday.Node) (content []Inline) {
	for n := parent.FirstChild; n != nil; n = n.Next {
		content = append(content, bfInline(n))
	}
	return content
}

func bfInline(n *blackfriday.Node) Inline {
	switch n.Type {

	case blackfriday.Strong:
		return Strong{Content: bfInlines(n)}

	case blackfriday.Emph:
		return Emph{Content: bfInlines(n)}

	case blackfriday.Code:
		return Code{Text: string(n.Literal)}

	case blackfriday.Link:
		return Link{Destination: string(n.Destination), Content: bfInlines(n)}

	case blackfriday.Text:
		return Text{Text: string(n.Literal)}

	case blackfriday.Softbreak, blackfriday.Hardbreak:
		return Text{Text: "\n"}

	// no strikethrough or image styling downstream; keep their text and any
	// structure within
	case blackfriday.Del, blackfriday.Image:
		return Text{Content: bfInlines(n)}

	case blackfriday.HTMLSpan:
		return Other{Type: "html", Raw: string(n.Literal)}

	default:
		return Other{Type: strings.ToLower(n.Type.String()), Text: string(n.Literal)}
	}
}

// bfCollect gathers all literal text under n, placing each paragraph-like
// node on its own line.
func bfCollect(n *blackfriday.Node) string {
	var buf bytes.Buffer
	n.Walk(func(c *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if !entering {
			return blackfriday.GoToNext
		}
		switch c.Type {
		case blackfriday.Item, blackfriday.Paragraph, blackfriday.Heading,
			blackfriday.CodeBlock, blackfriday.TableRow:
			if b := buf.Bytes(); len(b) > 0 && b[len(b)-1] != '\n' {
				buf.WriteByte('\n')
			}
			buf.Write(c.Literal)
		case blackfriday.Softbreak, blackfriday.Hardbreak:
			buf.WriteByte('\n')
		case blackfriday.TableCell:
			if c.Prev != nil {
				buf.WriteByte(' ')
			}
		default:
			buf.Write(c.Literal)
		}
		return blackfriday.GoToNext
	})
	return strings.TrimRight(buf.String(), "\n")
}

// trimTrailingBreak drops line endings that some parsers leave at the end of
// a block's final text run.
func trimTrailingBreak(content []Inline) []Inline {
	i := len(content) - 1
	if i < 0 {
		return content
	}
	t, ok := content[i].(Text)
	if !ok || len(t.Content) > 0 {
		return content
	}
	t.Text = strings.TrimRight(t.Text, "\r\n")
	if t.Text == "" {
		return trimTrailingBreak(content[:i])
	}
	content[i] = t
	return content
}
