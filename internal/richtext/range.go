/* Package richtext applies flattened markdown documents to a positional
rich-text host: a text frame whose only formatting primitive is "style the
window [start, start+length) of my flat text".

The host is an injected capability. Obtaining one is a separate step from
using it, so that an unavailable host is reported as a HostNotReadyError
before any markdown is processed.

*/
package richtext

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcorbin/flatmark/flatdoc"
)

// ErrOutOfRange is returned by Range.SubRange for an invalid window.
var ErrOutOfRange = errors.New("sub-range out of bounds")

// Range is a window of positional rich text. Mutations are not observable
// through reads until the owning Host has been synced.
type Range interface {
	// SetText replaces the range's content.
	SetText(s string) error

	Text() (string, error)
	Len() (int, error)

	// SubRange returns the window [start, start+length) within the receiver,
	// failing with ErrOutOfRange if that window is invalid.
	SubRange(start, length int) (Range, error)

	SetBold(bool) error
	SetItalic(bool) error
	SetFontSize(float64) error

	// SetBulletVisible shows or hides bullets on every paragraph touched by
	// the range.
	SetBulletVisible(bool) error
}

// Host owns a Range, and commits mutations made through it on Sync.
type Host interface {
	Range() Range
	Sync(ctx context.Context) error
}

// UnitHost is implemented by hosts that declare their offset unit.
type UnitHost interface {
	Host
	Unit() flatdoc.Unit
}

// HostNotReadyError is returned when a Host cannot be obtained.
type HostNotReadyError struct {
	Reason string
	Err    error
}

func (err *HostNotReadyError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("host not ready: %v: %v", err.Reason, err.Err)
	}
	return "host not ready: " + err.Reason
}

func (err *HostNotReadyError) Unwrap() error { return err.Err }

// HeadingSizes maps heading levels to host font sizes.
var HeadingSizes = map[flatdoc.HeadingLevel]float64{
	1: 28,
	2: 24,
	3: 20,
}
