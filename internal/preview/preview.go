// Package preview renders a lightweight line-oriented reading of markdown,
// as shown in a chat transcript before the text is applied anywhere.
//
// It understands only "- " bullet lines and single-line **bold** and *italic*
// runs; everything else is shown as written.
package preview

import (
	"regexp"
	"strings"
)

var (
	bulletPattern = regexp.MustCompile(`^-\s+(.*)$`)
	inlinePattern = regexp.MustCompile(`(\*\*([^*]+)\*\*)|(\*([^*]+)\*)`)
)

// Segment is a uniformly styled run of text within a Paragraph.
type Segment struct {
	Text   string
	Bold   bool
	Italic bool
}

// Paragraph is one non-blank source line.
type Paragraph struct {
	Segments []Segment
	Bullet   bool
}

// Parse splits markdown into paragraphs, one per non-blank line.
func Parse(markdown string) (paras []Paragraph) {
	for _, line := range strings.Split(markdown, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var para Paragraph
		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			para.Bullet = true
			line = m[1]
		}
		para.Segments = segments(line)
		paras = append(paras, para)
	}
	return paras
}

func segments(line string) (segs []Segment) {
	pos := 0
	for _, m := range inlinePattern.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > pos {
			segs = append(segs, Segment{Text: line[pos:m[0]]})
		}
		if m[2] >= 0 {
			segs = append(segs, Segment{Text: line[m[4]:m[5]], Bold: true})
		} else {
			segs = append(segs, Segment{Text: line[m[8]:m[9]], Italic: true})
		}
		pos = m[1]
	}
	if pos < len(line) {
		segs = append(segs, Segment{Text: line[pos:]})
	}
	return segs
}

// String returns the paragraph's plain text, with any bullet prefix.
func (para Paragraph) String() string {
	var sb strings.Builder
	if para.Bullet {
		sb.WriteString(BulletPrefix)
	}
	for _, seg := range para.Segments {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}
