package memhost

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/jcorbin/flatmark/internal/textio"
)

// Run is a maximal window of identically formatted code units.
type Run struct {
	Start  int `json:"start"`
	Length int `json:"length"`
	Format
}

// Paragraph is one newline-terminated line of frame text.
type Paragraph struct {
	Start  int
	Length int    // including any terminating newline
	Text   string // excluding the terminating newline
	Bullet bool
}

// Shape is the persisted state of a frame.
type Shape struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Runs    []Run  `json:"runs,omitempty"`
	Bullets []int  `json:"bullets,omitempty"` // bulleted paragraph indices

	// Previous is the shape's text before its last rewrite, if any.
	Previous *string `json:"previous,omitempty"`
}

// Runs returns the committed formatted runs; unformatted text is omitted.
func (fr *Frame) Runs() []Run {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return fr.runs(0, len(fr.units), false)
}

func (fr *Frame) runs(lo, hi int, plain bool) (runs []Run) {
	for i := lo; i < hi; {
		j := i + 1
		for j < hi && fr.format[j] == fr.format[i] {
			j++
		}
		if plain || fr.format[i] != (Format{}) {
			runs = append(runs, Run{Start: i, Length: j - i, Format: fr.format[i]})
		}
		i = j
	}
	return runs
}

// FormatAt returns the committed format of the code unit at offset i.
func (fr *Frame) FormatAt(i int) (Format, bool) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if i < 0 || i >= len(fr.format) {
		return Format{}, false
	}
	return fr.format[i], true
}

// Paragraphs returns the committed paragraphs. Text ending in a newline has
// no trailing empty paragraph.
func (fr *Frame) Paragraphs() []Paragraph {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return fr.paragraphs()
}

func (fr *Frame) paragraphs() (paras []Paragraph) {
	for start := 0; start < len(fr.units); {
		end := start
		for end < len(fr.units) && fr.units[end] != '\n' {
			end++
		}
		text := string(utf16.Decode(fr.units[start:end]))
		if end < len(fr.units) {
			end++
		}
		paras = append(paras, Paragraph{
			Start:  start,
			Length: end - start,
			Text:   text,
			Bullet: fr.bullet[start],
		})
		start = end
	}
	return paras
}

// Shape returns the committed state; ID and Previous are left empty.
func (fr *Frame) Shape() Shape {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	sh := Shape{
		Text: string(utf16.Decode(fr.units)),
		Runs: fr.runs(0, len(fr.units), false),
	}
	for i, para := range fr.paragraphs() {
		if para.Bullet {
			sh.Bullets = append(sh.Bullets, i)
		}
	}
	return sh
}

// Load returns a Frame holding the given shape state, normalizing future
// writes with NFC. Runs and bullets outside the shape's text are ignored.
func Load(sh Shape) *Frame {
	fr := New("")
	fr.units = utf16.Encode([]rune(sh.Text))
	fr.format = make([]Format, len(fr.units))
	fr.bullet = make([]bool, len(fr.units))
	for _, run := range sh.Runs {
		for i := run.Start; i < run.Start+run.Length; i++ {
			if i >= 0 && i < len(fr.format) {
				fr.format[i] = run.Format
			}
		}
	}
	paras := fr.paragraphs()
	for _, i := range sh.Bullets {
		if i >= 0 && i < len(paras) {
			para := paras[i]
			for j := para.Start; j < para.Start+para.Length; j++ {
				fr.bullet[j] = true
			}
		}
	}
	return fr
}

// WriteTo renders committed content, one paragraph per line. Bulleted
// paragraphs are prefixed with "• ", and formatted runs are wrapped like
// "[b i 28]text[/]".
func (fr *Frame) WriteTo(w io.Writer) (int64, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	var n int64
	ew := &textio.ErrWriter{Writer: w}
	write := func(s string) {
		m, _ := ew.WriteString(s)
		n += int64(m)
	}
	for _, para := range fr.paragraphs() {
		if para.Bullet {
			write("• ")
		}
		lo, hi := para.Start, para.Start+para.Length
		if hi > lo && fr.units[hi-1] == '\n' {
			hi--
		}
		for _, run := range fr.runs(lo, hi, true) {
			text := string(utf16.Decode(fr.units[run.Start : run.Start+run.Length]))
			if run.Format == (Format{}) {
				write(text)
			} else {
				write(fmt.Sprintf("[%v]%v[/]", run.Format, text))
			}
		}
		write("\n")
	}
	return n, ew.Err
}

// String returns a terse description like "b i 28", or "plain".
func (f Format) String() string {
	var parts []string
	if f.Bold {
		parts = append(parts, "b")
	}
	if f.Italic {
		parts = append(parts, "i")
	}
	if f.Size != 0 {
		parts = append(parts, fmt.Sprint(f.Size))
	}
	if len(parts) == 0 {
		return "plain"
	}
	return strings.Join(parts, " ")
}
