package spec

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.axion.dev/compiler.go/internal/token"
)

func TestSymbolicValuesLongestFirst(t *testing.T) {
	t.Parallel()

	values := SymbolicValues()
	for x := 1; x < len(values); x = x + 1 {
		require.GreaterOrEqual(t, len(values[x-1]), len(values[x]))
	}
	for _, v := range []string{"**=", "//=", "<<=", ">>=", "==", "|>", "(", ";", "-", "--", "-="} {
		require.Contains(t, values, v)
	}
	for _, v := range values {
		require.False(t, isWord(v), "word %q leaked into symbols", v)
	}
}

func TestTablesResolve(t *testing.T) {
	t.Parallel()

	lookup := func(value string) (token.Kind, bool) {
		if isWord(value) {
			return WordOperator(value)
		}
		return Symbol(value)
	}
	for _, table := range [][]OperatorProperties{operators, assignments} {
		for _, op := range table {
			k, ok := lookup(op.Value)
			require.True(t, ok, "%q does not resolve", op.Value)
			require.Equal(t, op.Kind, k, op.Value)
			props, ok := Operator(op.Kind)
			require.True(t, ok, op.Value)
			require.Equal(t, op.Value, props.Value)
		}
	}
	for value, kind := range punctuation {
		k, ok := Symbol(value)
		require.True(t, ok, "%q does not resolve", value)
		require.Equal(t, kind, k, value)
	}
}

func TestIsWord(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"and", "is-not", "not-in", "as"} {
		require.True(t, isWord(v), v)
	}
	for _, v := range []string{"-", "--", "-=", "->", "**", ""} {
		require.False(t, isWord(v), v)
	}
}

func TestLongestSymbol(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		text     string
		expected string
		kind     token.Kind
	}{
		{text: "==x", expected: "==", kind: token.KindEqual},
		{text: "=x", expected: "=", kind: token.KindAssign},
		{text: "**=2", expected: "**=", kind: token.KindPowerAssign},
		{text: "** 2", expected: "**", kind: token.KindPower},
		{text: "|>f", expected: "|>", kind: token.KindRightPipe},
		{text: "->", expected: "->", kind: token.KindArrow},
		{text: "-x", expected: "-", kind: token.KindMinus},
		{text: "--x", expected: "--", kind: token.KindDecrement},
		{text: "-=1", expected: "-=", kind: token.KindMinusAssign},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.text, func(t *testing.T) {
			t.Parallel()
			v, k, ok := LongestSymbol(func(s string) bool { return strings.HasPrefix(testCase.text, s) })
			require.True(t, ok)
			require.Equal(t, testCase.expected, v)
			require.Equal(t, testCase.kind, k)
		})
	}
	_, _, ok := LongestSymbol(func(s string) bool { return strings.HasPrefix("$", s) })
	require.False(t, ok)
}

func TestOperatorLookups(t *testing.T) {
	t.Parallel()

	power, ok := Binary(token.KindPower)
	require.True(t, ok)
	require.Equal(t, RightToLeft, power.Assoc)

	star, _ := Binary(token.KindStar)
	require.Equal(t, star.Precedence, power.Precedence)
	plus, _ := Binary(token.KindPlus)
	require.Greater(t, star.Precedence, plus.Precedence)

	assign, ok := Binary(token.KindAssign)
	require.True(t, ok)
	require.Equal(t, AssignPrecedence, assign.Precedence)
	require.True(t, IsAssignment(token.KindStarAssign))

	_, ok = Binary(token.KindTilde)
	require.False(t, ok)
	minus, ok := Prefix(token.KindMinus)
	require.True(t, ok)
	require.Equal(t, UnaryPrecedence, minus.Precedence)
	not, ok := Prefix(token.KindNot)
	require.True(t, ok)
	require.Less(t, not.Precedence, plus.Precedence)

	k, ok := WordOperator("is-not")
	require.True(t, ok)
	require.Equal(t, token.KindIsNot, k)
	_, ok = WordOperator("let")
	require.False(t, ok)

	require.True(t, NeverStartsExpression(token.KindStar))
	require.True(t, NeverStartsExpression(token.KindParenClose))
	require.False(t, NeverStartsExpression(token.KindMinus))
	require.False(t, NeverStartsExpression(token.KindIdentifier))
}

func TestConcurrentReads(t *testing.T) {
	t.Parallel()

	wg := sync.WaitGroup{}
	for x := 0; x < 8; x = x + 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, v := range SymbolicValues() {
				_, ok := Symbol(v)
				require.True(t, ok)
			}
		}()
	}
	wg.Wait()
}
