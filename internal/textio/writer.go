package textio

import (
	"bytes"
	"io"
)

// ErrWriter wraps a writer, tracking its first error, and preventing future
// writes after one.
type ErrWriter struct {
	io.Writer
	Err error
}

// Write passes through to Writer if Err is nil, retaining any returned error.
func (ew *ErrWriter) Write(p []byte) (n int, err error) {
	if ew.Err == nil {
		n, ew.Err = ew.Writer.Write(p)
	}
	return n, ew.Err
}

// WriteString is io.WriteString through the receiver's error gate.
func (ew *ErrWriter) WriteString(s string) (n int, err error) {
	if ew.Err == nil {
		n, ew.Err = io.WriteString(ew.Writer, s)
	}
	return n, ew.Err
}

// Prefixer is a writer that prepends Prefix before every line written
// through it. Complete lines are written through immediately; a partial
// final line is held until its newline arrives, or Flush is called.
type Prefixer struct {
	Prefix string
	To     io.Writer

	buf bytes.Buffer
	mid bool // within a line, prefix already written
}

// PrefixWriter returns a Prefixer around w.
// The caller SHOULD Close it if they care to flush any partial final line.
func PrefixWriter(prefix string, w io.Writer) *Prefixer {
	return &Prefixer{Prefix: prefix, To: w}
}

// Write buffers p, prefixing each new line, then writes through all complete
// lines. It returns len(p) unless the underlying write fails.
func (p *Prefixer) Write(b []byte) (n int, err error) {
	for len(b) > 0 {
		if !p.mid {
			p.buf.WriteString(p.Prefix)
			p.mid = true
		}
		line := b
		if i := bytes.IndexByte(b, '\n'); i >= 0 {
			line = b[:i+1]
			p.mid = false
		}
		m, _ := p.buf.Write(line)
		n += m
		b = b[len(line):]
	}
	if i := bytes.LastIndexByte(p.buf.Bytes(), '\n'); i >= 0 {
		_, err = p.To.Write(p.buf.Next(i + 1))
	}
	return n, err
}

// Flush writes any buffered partial line.
func (p *Prefixer) Flush() error {
	if p.buf.Len() == 0 {
		return nil
	}
	_, err := p.buf.WriteTo(p.To)
	return err
}

// Close flushes any partial final line.
func (p *Prefixer) Close() error { return p.Flush() }
