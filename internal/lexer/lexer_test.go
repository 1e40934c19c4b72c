// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.axion.dev/compiler.go/internal/exc"
	"gopkg.axion.dev/compiler.go/internal/source"
	"gopkg.axion.dev/compiler.go/internal/token"
	"gopkg.axion.dev/compiler.go/internal/unit"
)

func lex(input string, options source.Options, opts ...Option) (*unit.Unit, []*token.Token) {
	u := unit.New("/test.ax", input, exc.NewReporter(nil), options)
	return u, New(u, opts...).Scan()
}

func kinds(tokens []*token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Kind)
	}
	return out
}

func codes(u *unit.Unit) []string {
	out := []string{}
	for _, e := range u.Reporter.Reported() {
		out = append(out, e.Code())
	}
	return out
}

func TestLexerKinds(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []token.Kind
		codes    []string
	}{
		{
			name:     "empty",
			input:    "",
			expected: []token.Kind{token.KindEOF},
		},
		{
			name:     "longest match",
			input:    "a == b",
			expected: []token.Kind{token.KindIdentifier, token.KindEqual, token.KindIdentifier, token.KindEOF},
		},
		{
			name:     "assignment symbols",
			input:    "a **= b //= c",
			expected: []token.Kind{token.KindIdentifier, token.KindPowerAssign, token.KindIdentifier, token.KindFloorDivAssign, token.KindIdentifier, token.KindEOF},
		},
		{
			name:     "keywords and word operators",
			input:    "let x = a is-not b and not c",
			expected: []token.Kind{token.KindLet, token.KindIdentifier, token.KindAssign, token.KindIdentifier, token.KindIsNot, token.KindIdentifier, token.KindAnd, token.KindNot, token.KindIdentifier, token.KindEOF},
		},
		{
			name:     "hyphenated word",
			input:    "foo-bar x-1",
			expected: []token.Kind{token.KindIdentifier, token.KindIdentifier, token.KindEOF},
		},
		{
			name:     "spaced minus",
			input:    "a - b",
			expected: []token.Kind{token.KindIdentifier, token.KindMinus, token.KindIdentifier, token.KindEOF},
		},
		{
			name:     "trailing hyphen",
			input:    "a-(b)",
			expected: []token.Kind{token.KindIdentifier, token.KindMinus, token.KindParenOpen, token.KindIdentifier, token.KindParenClose, token.KindEOF},
		},
		{
			name:     "unary minus and decrement",
			input:    "-x --y z--",
			expected: []token.Kind{token.KindMinus, token.KindIdentifier, token.KindDecrement, token.KindIdentifier, token.KindIdentifier, token.KindDecrement, token.KindEOF},
		},
		{
			name:     "mismatched family",
			input:    "(]",
			expected: []token.Kind{token.KindParenOpen, token.KindBracketClose, token.KindEOF},
			codes:    []string{exc.CodeMismatchedParenthesis, exc.CodeMismatchedBracket},
		},
		{
			name:     "unclosed brace",
			input:    "{[()]",
			expected: []token.Kind{token.KindBraceOpen, token.KindBracketOpen, token.KindParenOpen, token.KindParenClose, token.KindBracketClose, token.KindEOF},
			codes:    []string{exc.CodeMismatchedBrace},
		},
		{
			name:     "indentation",
			input:    "if x:\n  y\nz",
			expected: []token.Kind{token.KindIf, token.KindIdentifier, token.KindColon, token.KindNewline, token.KindIndent, token.KindIdentifier, token.KindNewline, token.KindOutdent, token.KindIdentifier, token.KindEOF},
		},
		{
			name:     "outdent at end",
			input:    "while a:\n    b\n",
			expected: []token.Kind{token.KindWhile, token.KindIdentifier, token.KindColon, token.KindNewline, token.KindIndent, token.KindIdentifier, token.KindNewline, token.KindOutdent, token.KindEOF},
		},
		{
			name:     "blank and comment lines keep indentation",
			input:    "a:\n  b\n\n# note\n  c",
			expected: []token.Kind{token.KindIdentifier, token.KindColon, token.KindNewline, token.KindIndent, token.KindIdentifier, token.KindNewline, token.KindNewline, token.KindComment, token.KindNewline, token.KindIdentifier, token.KindOutdent, token.KindEOF},
		},
		{
			name:     "line breaks inside brackets",
			input:    "f(a,\n  b)",
			expected: []token.Kind{token.KindIdentifier, token.KindParenOpen, token.KindIdentifier, token.KindComma, token.KindIdentifier, token.KindParenClose, token.KindEOF},
		},
		{
			name:     "invalid dedent",
			input:    "a\n    b\n  c",
			expected: []token.Kind{token.KindIdentifier, token.KindNewline, token.KindIndent, token.KindIdentifier, token.KindNewline, token.KindOutdent, token.KindIdentifier, token.KindEOF},
			codes:    []string{exc.CodeInvalidIndentation},
		},
		{
			name:     "invalid character",
			input:    "a $ b",
			expected: []token.Kind{token.KindIdentifier, token.KindInvalid, token.KindIdentifier, token.KindEOF},
			codes:    []string{exc.CodeInvalidCharacter},
		},
		{
			name:     "unknown symbol",
			input:    "!a",
			expected: []token.Kind{token.KindUnknown, token.KindIdentifier, token.KindEOF},
			codes:    []string{exc.CodeInvalidCharacter},
		},
		{
			name:     "numbers",
			input:    "0x1F 1_000 3.14 1e-5 2j .5 10px",
			expected: []token.Kind{token.KindNumber, token.KindNumber, token.KindNumber, token.KindNumber, token.KindNumber, token.KindNumber, token.KindNumber, token.KindEOF},
		},
		{
			name:     "member access on number",
			input:    "1.real",
			expected: []token.Kind{token.KindNumber, token.KindDot, token.KindIdentifier, token.KindEOF},
		},
		{
			name:     "char literals",
			input:    "`a` `\\``",
			expected: []token.Kind{token.KindChar, token.KindChar, token.KindEOF},
		},
		{
			name:     "unterminated char",
			input:    "`a\nb",
			expected: []token.Kind{token.KindChar, token.KindNewline, token.KindIdentifier, token.KindEOF},
			codes:    []string{exc.CodeUnterminatedChar},
		},
		{
			name:     "comments",
			input:    "a # tail\n### block\nstill ### b",
			expected: []token.Kind{token.KindIdentifier, token.KindComment, token.KindNewline, token.KindComment, token.KindIdentifier, token.KindEOF},
		},
		{
			name:     "leading whitespace",
			input:    "  a",
			expected: []token.Kind{token.KindWhitespace, token.KindIdentifier, token.KindEOF},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			u, tokens := lex(testCase.input, source.DefaultOptions())
			require.Equal(t, testCase.expected, kinds(tokens))
			expectedCodes := testCase.codes
			if expectedCodes == nil {
				expectedCodes = []string{}
			}
			require.Equal(t, expectedCodes, codes(u))
			require.Equal(t, testCase.input, token.Text(tokens))
		})
	}
}

func TestLexerRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"x = 1\n",
		"if x:\n    y\r\n  z\n\n",
		"f\"a{b + c}d\" + rb'\\d'",
		"'''multi\nline''' \"\"\"x\"\"\"",
		"(]",
		"###never closed",
		"'open",
		"a $ b ! c",
		"\tx\n  y\n\t\tz",
		"class P(x: int):\n  pass\n",
		"f\"{x\"",
		"\ufeffa",
	}
	for _, input := range inputs {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			_, tokens := lex(input, source.DefaultOptions())
			require.Equal(t, input, token.Text(tokens))
			eofs := 0
			for _, tok := range tokens {
				if tok.Kind == token.KindEOF {
					eofs = eofs + 1
				}
			}
			require.Equal(t, 1, eofs)
			require.Equal(t, token.KindEOF, tokens[len(tokens)-1].Kind)
		})
	}
}

func TestLexerStrings(t *testing.T) {
	t.Parallel()

	_, tokens := lex(`rb'x' F"a{b + c}d" f"{{lit}}" """q"""`, source.DefaultOptions())
	require.Len(t, tokens, 5)

	raw := tokens[0]
	require.Equal(t, token.KindString, raw.Kind)
	require.Equal(t, "rb", raw.Prefixes)
	require.Equal(t, "x", raw.Content)
	require.Equal(t, "'", raw.Quote)
	require.True(t, raw.HasPrefix('b'))

	format := tokens[1]
	require.Equal(t, "a{b + c}d", format.Content)
	require.Len(t, format.Interpolations, 1)
	inner := format.Interpolations[0]
	require.Equal(t, []token.Kind{token.KindIdentifier, token.KindPlus, token.KindIdentifier}, kinds(inner.Tokens))
	require.Equal(t, uint32(10), inner.Tokens[0].Span.Start.Column)
	require.Equal(t, uint32(9), inner.Span.Start.Column)
	require.Equal(t, uint32(16), inner.Span.End.Column)

	escaped := tokens[2]
	require.Empty(t, escaped.Interpolations)

	triple := tokens[3]
	require.Equal(t, `"""`, triple.Quote)
	require.Equal(t, "q", triple.Content)
}

func TestLexerPositions(t *testing.T) {
	t.Parallel()

	_, tokens := lex("a\n bc", source.DefaultOptions())
	require.Equal(t, []token.Kind{token.KindIdentifier, token.KindNewline, token.KindIndent, token.KindIdentifier, token.KindOutdent, token.KindEOF}, kinds(tokens))
	bc := tokens[3]
	require.Equal(t, source.Position{Line: 1, Column: 1, Offset: 3}, bc.Span.Start)
	require.Equal(t, source.Position{Line: 1, Column: 3, Offset: 5}, bc.Span.End)
	require.Equal(t, 1, tokens[2].Depth)
	require.Equal(t, 1, tokens[2].Delta)
	require.Equal(t, 0, tokens[4].Depth)
	require.Equal(t, -1, tokens[4].Delta)
	require.Equal(t, " ", tokens[1].EndWhitespace)
}

func TestIndentDeltas(t *testing.T) {
	t.Parallel()

	_, tokens := lex("a:\n  b:\n      c\nd\n", source.DefaultOptions())
	type level struct {
		kind  token.Kind
		depth int
		delta int
	}
	levels := []level{}
	for _, tok := range tokens {
		if tok.Is(token.KindIndent, token.KindOutdent) {
			levels = append(levels, level{tok.Kind, tok.Depth, tok.Delta})
		}
	}
	require.Equal(t, []level{
		{token.KindIndent, 2, 2},
		{token.KindIndent, 6, 4},
		{token.KindOutdent, 2, -4},
		{token.KindOutdent, 0, -2},
	}, levels)
}

func TestLexerResume(t *testing.T) {
	t.Parallel()

	t.Run("string", func(t *testing.T) {
		t.Parallel()
		u := unit.New("/resume.ax", `x = "abc`, exc.NewReporter(nil), source.DefaultOptions())
		l := New(u)
		first := l.Scan()
		require.Equal(t, []token.Kind{token.KindIdentifier, token.KindAssign, token.KindString, token.KindEOF}, kinds(first))
		require.True(t, first[2].Unterminated)
		require.Equal(t, []string{exc.CodeUnterminatedString}, codes(u))

		u.Feed(`def" + 1`)
		second := l.Scan()
		require.Equal(t, []token.Kind{token.KindIdentifier, token.KindAssign, token.KindString, token.KindPlus, token.KindNumber, token.KindEOF}, kinds(second))
		require.False(t, second[2].Unterminated)
		require.Equal(t, "abcdef", second[2].Content)
		require.Equal(t, u.Code, token.Text(second))
		require.Equal(t, second, u.Tokens)
		require.Equal(t, []token.Kind{token.KindIdentifier, token.KindAssign, token.KindString, token.KindEOF}, kinds(first))
		require.True(t, first[2].Unterminated)
	})

	t.Run("comment", func(t *testing.T) {
		t.Parallel()
		u := unit.New("/resume.ax", "###abc", exc.NewReporter(nil), source.DefaultOptions())
		l := New(u)
		first := l.Scan()
		require.True(t, first[0].Unterminated)

		u.Feed("###\nx")
		second := l.Scan()
		require.Equal(t, []token.Kind{token.KindComment, token.KindNewline, token.KindIdentifier, token.KindEOF}, kinds(second))
		require.False(t, second[0].Unterminated)
		require.Equal(t, "abc", second[0].Content)
	})

	t.Run("indentation", func(t *testing.T) {
		t.Parallel()
		u := unit.New("/resume.ax", "if a:\n", exc.NewReporter(nil), source.DefaultOptions())
		l := New(u)
		_ = l.Scan()
		u.Feed("  b\n")
		second := l.Scan()
		require.Equal(t, []token.Kind{token.KindIf, token.KindIdentifier, token.KindColon, token.KindNewline, token.KindIndent, token.KindIdentifier, token.KindNewline, token.KindOutdent, token.KindEOF}, kinds(second))
		u.Feed("c\n")
		third := l.Scan()
		require.Equal(t, token.KindIdentifier, third[len(third)-3].Kind)
		require.Equal(t, u.Code, token.Text(third))
	})

	t.Run("brackets reported once", func(t *testing.T) {
		t.Parallel()
		u := unit.New("/resume.ax", "(a", exc.NewReporter(nil), source.DefaultOptions())
		l := New(u)
		_ = l.Scan()
		u.Feed(" b")
		_ = l.Scan()
		require.Equal(t, []string{exc.CodeMismatchedParenthesis}, codes(u))
	})
}

func TestLexerCancellers(t *testing.T) {
	t.Parallel()

	_, tokens := lex("a + b; c", source.DefaultOptions(), WithCancellers(";"))
	require.Equal(t, []token.Kind{token.KindIdentifier, token.KindPlus, token.KindIdentifier, token.KindEOF}, kinds(tokens))

	_, tokens = lex("(a;b); c", source.DefaultOptions(), WithCancellers(";"))
	require.Equal(t, []token.Kind{token.KindParenOpen, token.KindIdentifier, token.KindSemicolon, token.KindIdentifier, token.KindParenClose, token.KindEOF}, kinds(tokens))

	_, tokens = lex("x stop y", source.DefaultOptions(), WithCancellers("stop"))
	require.Equal(t, []token.Kind{token.KindIdentifier, token.KindEOF}, kinds(tokens))
}

func TestLexerIndentationConsistency(t *testing.T) {
	t.Parallel()

	options := source.DefaultOptions()
	options.CheckIndentationConsistency = true
	u, _ := lex("if x:\n\t y\n", options)
	require.Equal(t, []string{exc.CodeInconsistentIndentation}, codes(u))

	u, _ = lex("if x:\n\ty\nif z:\n    w\n", options)
	require.Equal(t, []string{exc.CodeInconsistentIndentation}, codes(u))

	u, _ = lex("if x:\n\t y\n", source.DefaultOptions())
	require.Equal(t, []string{}, codes(u))
}

func BenchmarkLexer(b *testing.B) {
	input := "fn add(a: int, b: int) -> int:\n    let total = a + b * 2 ** 3\n    return total\n"
	for x := 0; x < 6; x = x + 1 {
		input = input + input
	}
	b.ResetTimer()
	for n := 0; n < b.N; n = n + 1 {
		_, _ = lex(input, source.DefaultOptions())
	}
}
