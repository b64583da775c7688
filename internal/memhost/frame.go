/* Package memhost implements an in-memory positional rich-text host.

A Frame behaves like a presentation text frame: its text is addressed in
UTF-16 code units, formatting is per character, bullets are per paragraph,
and mutations queue until Sync commits them. Text written into a frame may be
normalized on commit (NFC by default), so its committed length can differ
from what the writer computed.

A Store persists frames as shape files in a directory.

*/
package memhost

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"

	"github.com/jcorbin/flatmark/flatdoc"
	"github.com/jcorbin/flatmark/internal/richtext"
)

var errInvalidSize = errors.New("invalid font size")

// Format is the character formatting of a single code unit.
type Format struct {
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
	Size   float64 `json:"size,omitempty"`
}

// Frame is an in-memory text frame; it implements richtext.UnitHost.
type Frame struct {
	// Normalize, if non-nil, is applied to text when a write is committed.
	Normalize func(string) string

	// FailSubRange, if non-nil, is consulted by every SubRange call; a
	// non-nil return fails that call.
	FailSubRange func(start, length int) error

	// FailSync, if non-nil, is called with the 1-based count of Sync calls;
	// a non-nil return fails that sync, discarding its pending mutations.
	FailSync func(n int) error

	mu      sync.Mutex
	units   []uint16
	format  []Format
	bullet  []bool // uniform within each paragraph
	pending []mutation
	syncs   int
}

type mutation func(fr *Frame) error

// New returns a Frame holding text, normalizing with NFC.
func New(text string) *Frame {
	fr := &Frame{Normalize: norm.NFC.String}
	fr.splice(0, 0, text)
	return fr
}

// Unit returns flatdoc.UTF16.
func (fr *Frame) Unit() flatdoc.Unit { return flatdoc.UTF16 }

// Range returns the whole-frame range.
func (fr *Frame) Range() richtext.Range { return frameRange{fr, 0, -1} }

// Sync commits all pending mutations in the order they were made, stopping
// at the first one that fails. Mutations after a failed one are discarded.
func (fr *Frame) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.syncs++
	pending := fr.pending
	fr.pending = nil
	if fr.FailSync != nil {
		if err := fr.FailSync(fr.syncs); err != nil {
			return err
		}
	}
	for _, m := range pending {
		if err := m(fr); err != nil {
			return err
		}
	}
	return nil
}

// Pending returns the number of uncommitted mutations.
func (fr *Frame) Pending() int {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return len(fr.pending)
}

func (fr *Frame) queue(m mutation) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.pending = append(fr.pending, m)
}

// splice replaces units [lo, hi) with s; new text carries no formatting.
func (fr *Frame) splice(lo, hi int, s string) {
	if fr.Normalize != nil {
		s = fr.Normalize(s)
	}
	ins := utf16.Encode([]rune(s))
	n := len(fr.units) - (hi - lo) + len(ins)

	units := make([]uint16, 0, n)
	units = append(units, fr.units[:lo]...)
	units = append(units, ins...)
	units = append(units, fr.units[hi:]...)

	format := make([]Format, 0, n)
	format = append(format, fr.format[:lo]...)
	format = append(format, make([]Format, len(ins))...)
	format = append(format, fr.format[hi:]...)

	bullet := make([]bool, 0, n)
	bullet = append(bullet, fr.bullet[:lo]...)
	bullet = append(bullet, make([]bool, len(ins))...)
	bullet = append(bullet, fr.bullet[hi:]...)

	fr.units, fr.format, fr.bullet = units, format, bullet
}

// paragraph returns the bounds of the paragraph(s) touched by [lo, hi); a
// paragraph includes its terminating newline.
func (fr *Frame) paragraph(lo, hi int) (start, end int) {
	start = lo
	for start > 0 && fr.units[start-1] != '\n' {
		start--
	}
	end = hi
	if end <= lo {
		end = lo + 1
	}
	if end > len(fr.units) {
		return start, len(fr.units)
	}
	for end < len(fr.units) && fr.units[end-1] != '\n' {
		end++
	}
	return start, end
}

type frameRange struct {
	fr     *Frame
	start  int
	length int // negative for the whole frame
}

// bounds resolves the range against committed text; caller holds fr.mu.
func (r frameRange) bounds() (lo, hi int, err error) {
	if r.length < 0 {
		return 0, len(r.fr.units), nil
	}
	lo, hi = r.start, r.start+r.length
	if lo < 0 || hi > len(r.fr.units) {
		return 0, 0, fmt.Errorf("%w: [%v, %v) within %v", richtext.ErrOutOfRange, lo, hi, len(r.fr.units))
	}
	return lo, hi, nil
}

func (r frameRange) SetText(s string) error {
	r.fr.queue(func(fr *Frame) error {
		lo, hi, err := r.bounds()
		if err == nil {
			fr.splice(lo, hi, s)
		}
		return err
	})
	return nil
}

func (r frameRange) Text() (string, error) {
	r.fr.mu.Lock()
	defer r.fr.mu.Unlock()
	lo, hi, err := r.bounds()
	if err != nil {
		return "", err
	}
	return string(utf16.Decode(r.fr.units[lo:hi])), nil
}

func (r frameRange) Len() (int, error) {
	r.fr.mu.Lock()
	defer r.fr.mu.Unlock()
	lo, hi, err := r.bounds()
	return hi - lo, err
}

func (r frameRange) SubRange(start, length int) (richtext.Range, error) {
	r.fr.mu.Lock()
	defer r.fr.mu.Unlock()
	lo, hi, err := r.bounds()
	if err != nil {
		return nil, err
	}
	if start < 0 || length < 0 || start+length > hi-lo {
		return nil, fmt.Errorf("%w: [%v, %v) within %v", richtext.ErrOutOfRange, start, start+length, hi-lo)
	}
	if hook := r.fr.FailSubRange; hook != nil {
		if err := hook(lo+start, length); err != nil {
			return nil, err
		}
	}
	return frameRange{r.fr, lo + start, length}, nil
}

func (r frameRange) eachFormat(fn func(f *Format)) error {
	r.fr.queue(func(fr *Frame) error {
		lo, hi, err := r.bounds()
		if err != nil {
			return err
		}
		for i := lo; i < hi; i++ {
			fn(&fr.format[i])
		}
		return nil
	})
	return nil
}

func (r frameRange) SetBold(b bool) error {
	return r.eachFormat(func(f *Format) { f.Bold = b })
}

func (r frameRange) SetItalic(b bool) error {
	return r.eachFormat(func(f *Format) { f.Italic = b })
}

func (r frameRange) SetFontSize(size float64) error {
	if size <= 0 {
		return fmt.Errorf("%w: %v", errInvalidSize, size)
	}
	return r.eachFormat(func(f *Format) { f.Size = size })
}

func (r frameRange) SetBulletVisible(visible bool) error {
	r.fr.queue(func(fr *Frame) error {
		lo, hi, err := r.bounds()
		if err != nil {
			return err
		}
		if len(fr.units) == 0 {
			return nil
		}
		start, end := fr.paragraph(lo, hi)
		for i := start; i < end; i++ {
			fr.bullet[i] = visible
		}
		return nil
	})
	return nil
}
