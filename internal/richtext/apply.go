package richtext

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jcorbin/flatmark/flatdoc"
)

// Applier writes Documents into hosts.
type Applier struct {
	// Flattener is used by Rewrite; its Unit is overridden by hosts that
	// implement UnitHost.
	Flattener flatdoc.Flattener

	// Logger receives per-span diagnostics; defaults to the standard logger.
	Logger *log.Logger
}

// Report counts what happened to a document's spans and bullets.
type Report struct {
	TotalLength int // host reported text length after the initial write
	Applied     int
	Skipped     int // empty or out of bounds
	Failed      int // host error while styling
}

// Apply is Applier{}.Apply.
func Apply(ctx context.Context, doc flatdoc.Document, host Host) (Report, error) {
	return Applier{}.Apply(ctx, doc, host)
}

// Apply writes doc.Text as the host range's content, then styles every span
// followed by every bullet, in document order, syncing after each mutation.
//
// Only a failure to write the text or read it back is returned. Any
// span or bullet that falls outside the host's text (which may have been
// normalized) is skipped, and one that the host fails to style is logged and
// passed over.
func (ap Applier) Apply(ctx context.Context, doc flatdoc.Document, host Host) (rep Report, _ error) {
	rng := host.Range()
	if err := rng.SetText(doc.Text); err != nil {
		return rep, fmt.Errorf("unable to write text: %w", err)
	}
	if err := host.Sync(ctx); err != nil {
		return rep, fmt.Errorf("unable to commit text: %w", err)
	}
	// the host may have normalized what was written
	if _, err := rng.Text(); err != nil {
		return rep, fmt.Errorf("unable to read back text: %w", err)
	}
	total, err := rng.Len()
	if err != nil {
		return rep, fmt.Errorf("unable to read back text length: %w", err)
	}
	rep.TotalLength = total

	for _, span := range doc.Spans {
		span := span
		rep.tally(ap.window(ctx, host, "style span", span.Start, span.Length, total, func(sub Range) error {
			return styleRange(sub, span)
		}))
	}

	for _, block := range doc.Bullets {
		rep.tally(ap.window(ctx, host, "bullet block", block.Start, block.Length, total, func(sub Range) error {
			return sub.SetBulletVisible(true)
		}))
	}

	return rep, nil
}

// Rewrite obtains a host from connect, then flattens markdown and applies it.
// A connect failure is returned as a *HostNotReadyError without flattening.
func (ap Applier) Rewrite(ctx context.Context, connect func() (Host, error), markdown string) (Report, error) {
	host, err := connect()
	if err != nil {
		var notReady *HostNotReadyError
		if errors.As(err, &notReady) {
			return Report{}, err
		}
		return Report{}, &HostNotReadyError{Reason: "unable to connect", Err: err}
	}
	if host == nil {
		return Report{}, &HostNotReadyError{Reason: "no host"}
	}

	fl := ap.Flattener
	if uh, ok := host.(UnitHost); ok {
		fl.Unit = uh.Unit()
	}
	return ap.Apply(ctx, fl.Flatten(markdown), host)
}

func styleRange(sub Range, span flatdoc.StyleSpan) error {
	if span.Style&flatdoc.Bold != 0 {
		if err := sub.SetBold(true); err != nil {
			return err
		}
	}
	if span.Style&flatdoc.Italic != 0 {
		if err := sub.SetItalic(true); err != nil {
			return err
		}
	}
	if size, ok := HeadingSizes[span.Heading]; ok {
		if err := sub.SetFontSize(size); err != nil {
			return err
		}
	}
	return nil
}

type outcome int

const (
	applied outcome = iota
	skipped
	failed
)

func (rep *Report) tally(o outcome) {
	switch o {
	case applied:
		rep.Applied++
	case skipped:
		rep.Skipped++
	case failed:
		rep.Failed++
	}
}

// window clamps [start, start+length) to the host's total length, then runs
// fn against that sub-range and syncs. Errors are logged, not returned.
func (ap Applier) window(
	ctx context.Context, host Host,
	kind string, start, length, total int,
	fn func(sub Range) error,
) outcome {
	if length <= 0 || start < 0 || start >= total {
		ap.logf("skipping %v out of bounds: start=%v length=%v total=%v", kind, start, length, total)
		return skipped
	}
	if max := total - start; length > max {
		length = max
	}
	sub, err := host.Range().SubRange(start, length)
	if err == nil {
		err = fn(sub)
	}
	if err == nil {
		err = host.Sync(ctx)
	}
	if err != nil {
		ap.logf("unable to apply %v at %v: %v", kind, start, err)
		return failed
	}
	return applied
}

func (ap Applier) logf(format string, args ...interface{}) {
	if ap.Logger != nil {
		ap.Logger.Printf(format, args...)
	} else {
		log.Printf(format, args...)
	}
}
