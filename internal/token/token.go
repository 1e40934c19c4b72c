// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"fmt"
	"strings"

	"gopkg.axion.dev/compiler.go/internal/source"
)

// Token is one lexeme of a source unit. Value is the exact source text of the
// lexeme and EndWhitespace is the run of whitespace that follows it, so the
// concatenation of both over a token stream reproduces the input.
type Token struct {
	Kind          Kind
	Value         string
	Content       string
	Span          source.Span
	EndWhitespace string

	// Unterminated is set on strings, chars and block comments that ran to
	// the end of the input without a closing delimiter.
	Unterminated bool
	// Prefixes holds the string prefix letters as written, for example "rf".
	Prefixes string
	// Quote is the opening delimiter of a string.
	Quote string
	// Interpolations holds the embedded expressions of a format string.
	Interpolations []*Interpolation
	// Depth is the absolute indentation width after an indent or outdent.
	// Delta is the change it makes: positive for an indent, negative for
	// each outdent.
	Depth int
	Delta int
}

// Interpolation is a braced region of a format string and its tokens.
type Interpolation struct {
	Span   source.Span
	Tokens []*Token
}

func New(kind Kind, value string, span source.Span) *Token {
	return &Token{
		Kind:    kind,
		Value:   value,
		Content: value,
		Span:    span,
	}
}

func (t *Token) Is(kinds ...Kind) bool {
	if t == nil {
		return false
	}
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

func (t *Token) HasPrefix(letter rune) bool {
	return strings.ContainsRune(strings.ToLower(t.Prefixes), letter)
}

func (t *Token) String() string {
	switch t.Kind {
	case KindNewline, KindIndent, KindOutdent, KindEOF:
		return t.Kind.String()
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Value)
}

// Text reassembles the source text of a token stream.
func Text(tokens []*Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Value)
		b.WriteString(t.EndWhitespace)
	}
	return b.String()
}
