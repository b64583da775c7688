package flatdoc

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// Unit is the code unit that Document offsets and lengths are counted in.
// It must match the unit used by whatever positional API the document is
// applied against.
type Unit int

const (
	// UTF16 counts UTF-16 code units; runes outside the basic multilingual
	// plane count as 2. This is what presentation hosts address text by.
	UTF16 Unit = iota
	Runes
	Bytes
)

// Len returns the length of s in units.
func (u Unit) Len(s string) int {
	switch u {
	case Bytes:
		return len(s)
	case Runes:
		return utf8.RuneCountInString(s)
	default:
		n := 0
		for _, r := range s {
			if m := utf16.RuneLen(r); m > 0 {
				n += m
			} else {
				n++
			}
		}
		return n
	}
}

// Slice returns the portion of s covering [start, start+length) in units,
// truncated to the bounds of s.
func (u Unit) Slice(s string, start, length int) string {
	switch u {
	case Bytes:
		lo, hi := clampWindow(start, length, len(s))
		return s[lo:hi]
	case Runes:
		rs := []rune(s)
		lo, hi := clampWindow(start, length, len(rs))
		return string(rs[lo:hi])
	default:
		us := utf16.Encode([]rune(s))
		lo, hi := clampWindow(start, length, len(us))
		return string(utf16.Decode(us[lo:hi]))
	}
}

func clampWindow(start, length, n int) (lo, hi int) {
	lo, hi = start, start+length
	if lo < 0 {
		lo = 0
	} else if lo > n {
		lo = n
	}
	if hi > n {
		hi = n
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// String returns the unit name.
func (u Unit) String() string {
	switch u {
	case UTF16:
		return "utf16"
	case Runes:
		return "runes"
	case Bytes:
		return "bytes"
	default:
		return "invalid"
	}
}

// ParseUnit is the inverse of Unit.String.
func ParseUnit(s string) (Unit, bool) {
	for _, u := range []Unit{UTF16, Runes, Bytes} {
		if u.String() == s {
			return u, true
		}
	}
	return 0, false
}

// MarshalText returns the unit name.
func (u Unit) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// UnmarshalText parses a unit name.
func (u *Unit) UnmarshalText(b []byte) error {
	v, ok := ParseUnit(string(b))
	if !ok {
		return fmt.Errorf("invalid unit %q, expected one of utf16, runes, or bytes", b)
	}
	*u = v
	return nil
}
