// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package literal decodes the text of literal tokens into values.
package literal

import (
	"fmt"
	"strings"

	"gopkg.axion.dev/compiler.go/internal/token"
)

type ErrorKind uint8

const (
	ErrorMalformedEscape ErrorKind = iota
	ErrorTruncatedEscape
	ErrorTrailingBackslash
	ErrorInvalidCodePoint
	ErrorUnknownName
	ErrorNonASCII
	ErrorCharLength
	ErrorInvalidBase
	ErrorInvalidDigit
	ErrorNoDigits
	ErrorInvalidSuffix
	ErrorMalformedFloat
	ErrorMalformedComplex
)

var errorKindNames = map[ErrorKind]string{
	ErrorMalformedEscape:   "malformed escape",
	ErrorTruncatedEscape:   "truncated escape",
	ErrorTrailingBackslash: "trailing backslash",
	ErrorInvalidCodePoint:  "invalid code point",
	ErrorUnknownName:       "unknown character name",
	ErrorNonASCII:          "non-ASCII character in bytes",
	ErrorCharLength:        "invalid character literal",
	ErrorInvalidBase:       "invalid base",
	ErrorInvalidDigit:      "invalid digit",
	ErrorNoDigits:          "missing digits",
	ErrorInvalidSuffix:     "invalid number suffix",
	ErrorMalformedFloat:    "malformed float",
	ErrorMalformedComplex:  "malformed complex",
}

func (k ErrorKind) String() string {
	return errorKindNames[k]
}

// Error describes why a literal could not be decoded. Offset is the byte
// offset within the decoded text where the problem starts.
type Error struct {
	Kind   ErrorKind
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s at offset %d", e.Kind, e.Offset)
	}
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Msg)
}

func fail(kind ErrorKind, offset int, format string, args ...any) *Error {
	return &Error{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// Decode returns the value of a literal token. Numbers decode to Int,
// float64 or complex128, strings to string or []byte, chars to rune and the
// keyword literals to bool or nil.
func Decode(t *token.Token) (any, error) {
	switch t.Kind {
	case token.KindNumber:
		return ParseNumber(t.Value)
	case token.KindString:
		raw := t.HasPrefix('r')
		if t.HasPrefix('b') {
			return ParseBytes(t.Content, raw)
		}
		return ParseString(t.Content, raw)
	case token.KindChar:
		return ParseChar(t.Content)
	case token.KindTrue:
		return true, nil
	case token.KindFalse:
		return false, nil
	case token.KindNil:
		return nil, nil
	}
	return nil, fmt.Errorf("%s is not a literal", t)
}

// ParseNumber decodes the text of a number token. A trailing j makes the
// number imaginary and a trailing l is accepted on integers.
func ParseNumber(text string) (any, error) {
	lower := strings.ToLower(text)
	radix := len(lower) > 1 && lower[0] == '0' && strings.ContainsRune("xbo", rune(lower[1]))
	switch {
	case strings.HasSuffix(lower, "j") && !radix:
		f, err := ParseFloat(text[:len(text)-1])
		if err != nil {
			return nil, err
		}
		return complex(0, f), nil
	case strings.HasSuffix(lower, "l"):
		return ParseInteger(text[:len(text)-1], 0)
	case radix:
		return ParseInteger(text, 0)
	}
	end := strings.IndexFunc(lower, func(r rune) bool {
		return !(r >= '0' && r <= '9') && r != '_' && r != '.' && r != 'e' && r != '+' && r != '-'
	})
	if end >= 0 {
		return nil, fail(ErrorInvalidSuffix, end, "%q", text[end:])
	}
	if strings.ContainsAny(lower, ".e") {
		return ParseFloat(text)
	}
	return ParseInteger(text, 0)
}
