// Package letter provides a forward-only cursor over the scalar values of a
// string.
//
// The cursor never splits a multi-byte UTF-8 encoding. Each step yields the
// slice of the original string that encodes one Unicode scalar value, so the
// byte length of the yielded slice is exactly what a matcher consumes.
package letter

import "unicode/utf8"

// Cursor walks a string one scalar value at a time.
//
// A Cursor is not restartable: once a slice has been yielded the cursor
// never goes back. Use Tail to obtain the unconsumed remainder and start a
// new Cursor over it.
type Cursor struct {
	s   string
	pos int
}

// New returns a cursor positioned at the start of s.
func New(s string) *Cursor {
	return &Cursor{s: s}
}

// Next returns the next scalar-value slice and true, or "" and false once
// the string is exhausted.
//
// A truncated encoding at the end of the buffer is returned verbatim as the
// final slice. An invalid lead byte elsewhere is returned as a one-byte slice.
func (c *Cursor) Next() (string, bool) {
	if c.pos >= len(c.s) {
		return "", false
	}
	w := width(c.s[c.pos:])
	g := c.s[c.pos : c.pos+w]
	c.pos += w
	return g, true
}

// Tail returns the unconsumed suffix without copying.
func (c *Cursor) Tail() string {
	return c.s[c.pos:]
}

// Pos returns the number of bytes consumed so far.
func (c *Cursor) Pos() int {
	return c.pos
}

// Width returns the byte width of the first slice Next would yield for s,
// or 0 when s is empty.
func Width(s string) int {
	if s == "" {
		return 0
	}
	return width(s)
}

// First returns the first scalar-value slice of s, or "" when s is empty.
func First(s string) string {
	return s[:Width(s)]
}

func width(s string) int {
	if s[0] < utf8.RuneSelf {
		return 1
	}
	if !utf8.FullRuneInString(s) {
		return len(s)
	}
	_, w := utf8.DecodeRuneInString(s)
	return w
}
