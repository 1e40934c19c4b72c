// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package source

import "fmt"

// Position is a zero based line and column pair within a source unit. Offset
// is the byte offset of the same location and is carried so that spans can be
// sliced directly out of the source text.
type Position struct {
	Line   uint32
	Column uint32
	Offset int
}

// Advance returns a new position moved by the given number of lines and
// columns. Moving by one or more lines resets the column before adding.
func (p Position) Advance(lines uint32, columns uint32) Position {
	if lines > 0 {
		return Position{Line: p.Line + lines, Column: columns, Offset: p.Offset}
	}
	return Position{Line: p.Line, Column: p.Column + columns, Offset: p.Offset}
}

func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

// String renders the position as a one based line:column pair.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Span is a half open range of source text. Start is never after End.
type Span struct {
	Start Position
	End   Position
}

func NewSpan(start Position, end Position) Span {
	if end.Less(start) {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// Join returns the smallest span covering both spans.
func (s Span) Join(o Span) Span {
	out := s
	if o.Start.Less(out.Start) {
		out.Start = o.Start
	}
	if out.End.Less(o.End) {
		out.End = o.End
	}
	return out
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}
