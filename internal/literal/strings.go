package literal

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/runenames"
)

// ParseString decodes the body of a string literal. Raw strings are returned
// unchanged. Unknown escapes are kept as written.
func ParseString(text string, raw bool) (string, error) {
	if raw || !strings.ContainsRune(text, '\\') {
		return text, nil
	}
	var b strings.Builder
	b.Grow(len(text))
	err := unescape(text, func(r rune) error {
		b.WriteRune(r)
		return nil
	}, func(s string) {
		b.WriteString(s)
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// ParseBytes decodes the body of a bytes literal. Only ASCII characters may
// appear unescaped and escapes must produce values below 256.
func ParseBytes(text string, raw bool) ([]byte, error) {
	for x, r := range text {
		if r > unicode.MaxASCII {
			return nil, fail(ErrorNonASCII, x, "%q", r)
		}
	}
	if raw {
		return []byte(text), nil
	}
	out := make([]byte, 0, len(text))
	err := unescape(text, func(r rune) error {
		if r > 0xff {
			return fail(ErrorInvalidCodePoint, len(out), "%U does not fit in a byte", r)
		}
		out = append(out, byte(r))
		return nil
	}, func(s string) {
		out = append(out, s...)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseChar decodes the body of a character literal, which must hold
// exactly one character after escapes are applied.
func ParseChar(text string) (rune, error) {
	s, err := ParseString(text, false)
	if err != nil {
		return 0, err
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fail(ErrorCharLength, 0, "expected one character, found %d", utf8.RuneCountInString(s))
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

var simpleEscapes = map[byte]rune{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

// unescape walks text and hands decoded characters to char and runs of
// verbatim text to verbatim.
func unescape(text string, char func(rune) error, verbatim func(string)) error {
	x := 0
	for x < len(text) {
		next := strings.IndexByte(text[x:], '\\')
		if next < 0 {
			verbatim(text[x:])
			return nil
		}
		verbatim(text[x : x+next])
		x = x + next
		start := x
		if x+1 >= len(text) {
			return fail(ErrorTrailingBackslash, start, "")
		}
		c := text[x+1]
		x = x + 2
		if r, ok := simpleEscapes[c]; ok {
			if err := char(r); err != nil {
				return err
			}
			continue
		}
		switch {
		case c == '\n':
		case c == '\r':
			if x < len(text) && text[x] == '\n' {
				x = x + 1
			}
		case c == 'u' || c == 'U':
			width := 4
			if c == 'U' {
				width = 8
			}
			v, ok := hexValue(text, x, width)
			if !ok {
				return fail(ErrorTruncatedEscape, start, "\\%c needs %d hex digits", c, width)
			}
			r := rune(v)
			if v > unicode.MaxRune || !utf8.ValidRune(r) {
				return fail(ErrorInvalidCodePoint, start, "%X", v)
			}
			if err := char(r); err != nil {
				return err
			}
			x = x + width
		case c == 'x':
			v, ok := hexValue(text, x, 2)
			if !ok {
				verbatim(text[start:x])
				continue
			}
			if err := char(rune(v)); err != nil {
				return err
			}
			x = x + 2
		case c >= '0' && c <= '7':
			v := rune(c - '0')
			for n := 0; n < 2 && x < len(text) && text[x] >= '0' && text[x] <= '7'; n = n + 1 {
				v = v*8 + rune(text[x]-'0')
				x = x + 1
			}
			if err := char(v); err != nil {
				return err
			}
		case c == 'N':
			if x >= len(text) || text[x] != '{' {
				return fail(ErrorMalformedEscape, start, "\\N must be followed by {name}")
			}
			end := strings.IndexByte(text[x:], '}')
			if end <= 1 {
				return fail(ErrorMalformedEscape, start, "\\N{} needs a name")
			}
			name := text[x+1 : x+end]
			r, ok := lookupName(name)
			if !ok {
				return fail(ErrorUnknownName, start, "%q", name)
			}
			if err := char(r); err != nil {
				return err
			}
			x = x + end + 1
		default:
			verbatim(text[start:x])
		}
	}
	return nil
}

func hexValue(text string, at int, width int) (uint32, bool) {
	if at+width > len(text) {
		return 0, false
	}
	var v uint32
	for _, c := range []byte(text[at : at+width]) {
		d, ok := digitValue(rune(c))
		if !ok || d >= 16 {
			return 0, false
		}
		v = v<<4 | uint32(d)
	}
	return v, true
}

var characterNames = sync.OnceValue(func() map[string]rune {
	names := make(map[string]rune, 1<<15)
	for r := rune(0); r <= unicode.MaxRune; r = r + 1 {
		if r >= 0xd800 && r <= 0xdfff {
			continue
		}
		name := runenames.Name(r)
		if name == "" || strings.HasPrefix(name, "<") {
			continue
		}
		if _, ok := names[name]; !ok {
			names[name] = r
		}
	}
	return names
})

// lookupName resolves a Unicode character name. The table is built on first
// use.
func lookupName(name string) (rune, bool) {
	r, ok := characterNames()[strings.ToUpper(strings.TrimSpace(name))]
	return r, ok
}
