package source

import (
	"strings"
	"unicode/utf8"
)

// EOF is returned by Cursor.Peek when reading past the end of the text.
const EOF rune = -1

// Cursor walks source text one code point at a time while tracking the
// position of the next unread character. Cursor is a value type so that a
// copy acts as a saved mark that can be restored by assignment.
type Cursor struct {
	text string
	pos  Position
}

func NewCursor(text string) Cursor {
	return Cursor{text: text}
}

// Reset swaps in new text while keeping the current position. It is used
// when more input is appended to a unit between scans.
func (c *Cursor) Reset(text string) {
	c.text = text
}

func (c *Cursor) Position() Position {
	return c.pos
}

func (c *Cursor) EOF() bool {
	return c.pos.Offset >= len(c.text)
}

// Peek returns the code point k characters ahead of the cursor, or EOF.
func (c *Cursor) Peek(k int) rune {
	off := c.pos.Offset
	for ; k > 0; k = k - 1 {
		if off >= len(c.text) {
			return EOF
		}
		_, size := utf8.DecodeRuneInString(c.text[off:])
		off = off + size
	}
	if off >= len(c.text) {
		return EOF
	}
	r, _ := utf8.DecodeRuneInString(c.text[off:])
	return r
}

// HasPrefix reports whether the unread text starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return strings.HasPrefix(c.text[c.pos.Offset:], s)
}

// Advance consumes n code points. A lone carriage return, a line feed, or a
// carriage return followed by a line feed each count as one line break.
func (c *Cursor) Advance(n int) {
	for ; n > 0 && !c.EOF(); n = n - 1 {
		r, size := utf8.DecodeRuneInString(c.text[c.pos.Offset:])
		c.pos.Offset = c.pos.Offset + size
		switch {
		case r == '\n':
			c.pos = c.pos.Advance(1, 0)
		case r == '\r' && c.Peek(0) != '\n':
			c.pos = c.pos.Advance(1, 0)
		default:
			c.pos.Column = c.pos.Column + 1
		}
	}
}

// Slice returns the text between a previously saved position and the cursor.
func (c *Cursor) Slice(from Position) string {
	return c.text[from.Offset:c.pos.Offset]
}

// SpanFrom returns the span between a previously saved position and the
// cursor.
func (c *Cursor) SpanFrom(from Position) Span {
	return Span{Start: from, End: c.pos}
}

// Seek moves the cursor back to a position previously read from it.
func (c *Cursor) Seek(p Position) {
	c.pos = p
}
