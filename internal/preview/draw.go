package preview

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// BulletPrefix marks bullet paragraphs.
const BulletPrefix = "• "

type cell struct {
	r     rune
	comb  []rune
	style tcell.Style
}

// Draw renders paragraphs into the screen region starting at (x, y), word
// wrapping within width cells. Continuation lines of a bullet paragraph are
// indented past its bullet. Returns the number of rows drawn.
func Draw(screen tcell.Screen, x, y, width int, paras []Paragraph) (rows int) {
	if width < 1 {
		width = 1
	}
	for _, para := range paras {
		rows += drawParagraph(screen, x, y+rows, width, para)
	}
	return rows
}

func drawParagraph(screen tcell.Screen, x, y, width int, para Paragraph) int {
	indent := 0
	if para.Bullet {
		for _, r := range BulletPrefix {
			screen.SetContent(x+indent, y, r, nil, tcell.StyleDefault)
			indent += runewidth.RuneWidth(r)
		}
	}
	avail := width - indent
	if avail < 1 {
		avail = 1
	}

	col, row := 0, 0
	for _, word := range words(para.Segments) {
		if n := wordWidth(word); col > 0 && col+1+n > avail {
			row, col = row+1, 0
		} else if col > 0 {
			col++
		}
		for _, c := range word {
			w := runewidth.RuneWidth(c.r)
			// words wider than the line break anywhere
			if col > 0 && col+w > avail {
				row, col = row+1, 0
			}
			screen.SetContent(x+indent+col, y+row, c.r, c.comb, c.style)
			col += w
		}
	}
	return row + 1
}

// words splits segments at whitespace; a word may span differently styled
// segments, as in "**bold**ly".
func words(segs []Segment) (words [][]cell) {
	var word []cell
	for _, seg := range segs {
		style := tcell.StyleDefault.Bold(seg.Bold).Italic(seg.Italic)
		for _, r := range seg.Text {
			switch {
			case unicode.IsSpace(r):
				if len(word) > 0 {
					words = append(words, word)
					word = nil
				}
			case runewidth.RuneWidth(r) == 0 && len(word) > 0:
				last := &word[len(word)-1]
				last.comb = append(last.comb, r)
			default:
				word = append(word, cell{r: r, style: style})
			}
		}
	}
	if len(word) > 0 {
		words = append(words, word)
	}
	return words
}

func wordWidth(word []cell) (n int) {
	for _, c := range word {
		n += runewidth.RuneWidth(c.r)
	}
	return n
}
