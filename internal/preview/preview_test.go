package preview_test

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/jcorbin/flatmark/internal/preview"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		name     string
		in       string
		expected []Paragraph
	}{
		{
			name: "bullet with styles",
			in:   "- **a** b *c*",
			expected: []Paragraph{{Bullet: true, Segments: []Segment{
				{Text: "a", Bold: true},
				{Text: " b "},
				{Text: "c", Italic: true},
			}}},
		},
		{
			name: "blank lines skipped",
			in:   "one\n\n   \n\ttwo\n",
			expected: []Paragraph{
				{Segments: []Segment{{Text: "one"}}},
				{Segments: []Segment{{Text: "\ttwo"}}},
			},
		},
		{
			name: "not a bullet",
			in:   "-dash\n* star",
			expected: []Paragraph{
				{Segments: []Segment{{Text: "-dash"}}},
				{Segments: []Segment{{Text: "* star"}}},
			},
		},
		{
			name:     "empty bullet",
			in:       "-  \n- \tx",
			expected: []Paragraph{{Bullet: true}, {Bullet: true, Segments: []Segment{{Text: "x"}}}},
		},
		{
			name: "unbalanced markers",
			in:   "**open and *close",
			expected: []Paragraph{{Segments: []Segment{
				{Text: "*"},
				{Text: "open and ", Italic: true},
				{Text: "close"},
			}}},
		},
		{
			name: "unclosed marker literal",
			in:   "**open",
			expected: []Paragraph{
				{Segments: []Segment{{Text: "**open"}}},
			},
		},
		{
			name: "headings shown as written",
			in:   "# Title",
			expected: []Paragraph{
				{Segments: []Segment{{Text: "# Title"}}},
			},
		},
		{
			name: "triple stars",
			in:   "***x***",
			expected: []Paragraph{{Segments: []Segment{
				{Text: "*"},
				{Text: "x", Bold: true},
				{Text: "*"},
			}}},
		},
		{
			name: "adjacent runs",
			in:   "*a***b**",
			expected: []Paragraph{{Segments: []Segment{
				{Text: "a", Italic: true},
				{Text: "b", Bold: true},
			}}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Parse(tc.in))
		})
	}
}

func TestParagraph_String(t *testing.T) {
	paras := Parse("- **a** b *c*\nplain")
	require.Len(t, paras, 2)
	assert.Equal(t, "• a b c", paras[0].String())
	assert.Equal(t, "plain", paras[1].String())
}

func simScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init(), "must init simulation screen")
	t.Cleanup(screen.Fini)
	screen.SetSize(width, height)
	return screen
}

func screenRows(screen tcell.Screen, width, height int) []string {
	rows := make([]string, height)
	for y := range rows {
		var sb strings.Builder
		for x := 0; x < width; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			sb.WriteRune(r)
		}
		rows[y] = strings.TrimRight(sb.String(), " ")
	}
	return rows
}

func attrsAt(screen tcell.Screen, x, y int) tcell.AttrMask {
	_, _, style, _ := screen.GetContent(x, y)
	_, _, attrs := style.Decompose()
	return attrs
}

func TestDraw(t *testing.T) {
	screen := simScreen(t, 10, 6)
	rows := Draw(screen, 0, 0, 10, Parse("- **a** b *c*\nplain words wrap here"))
	assert.Equal(t, 4, rows, "expected rows drawn")
	assert.Equal(t, []string{
		"• a b c",
		"plain",
		"words wrap",
		"here",
		"",
		"",
	}, screenRows(screen, 10, 6))

	assert.NotZero(t, attrsAt(screen, 2, 0)&tcell.AttrBold, "expected bold a")
	assert.Zero(t, attrsAt(screen, 4, 0)&(tcell.AttrBold|tcell.AttrItalic), "expected plain b")
	assert.NotZero(t, attrsAt(screen, 6, 0)&tcell.AttrItalic, "expected italic c")
}

func TestDraw_bulletIndent(t *testing.T) {
	screen := simScreen(t, 8, 4)
	rows := Draw(screen, 0, 0, 8, Parse("- one two three"))
	assert.Equal(t, 3, rows)
	assert.Equal(t, []string{
		"• one",
		"  two",
		"  three",
		"",
	}, screenRows(screen, 8, 4))
}

func TestDraw_longWord(t *testing.T) {
	screen := simScreen(t, 4, 3)
	rows := Draw(screen, 0, 0, 4, Parse("abcdefghij"))
	assert.Equal(t, 3, rows)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, screenRows(screen, 4, 3))
}

func TestDraw_wide(t *testing.T) {
	screen := simScreen(t, 6, 3)
	rows := Draw(screen, 0, 0, 6, Parse("日本 語"))
	assert.Equal(t, 2, rows, "expected wide runes to wrap by cell width")
	r, _, _, w := screen.GetContent(0, 1)
	assert.Equal(t, '語', r)
	assert.Equal(t, 2, w)
}
