package token

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.axion.dev/compiler.go/internal/source"
)

func TestKindNames(t *testing.T) {
	t.Parallel()

	for k := KindUnknown; k <= KindEOF; k = k + 1 {
		require.NotContains(t, k.String(), "Kind(", "missing name for kind %d", k)
	}
	require.True(t, KindWhile.IsKeyword())
	require.False(t, KindNot.IsKeyword())
	require.True(t, KindComment.IsTrivia())
	require.True(t, KindChar.IsLiteral())
}

func TestText(t *testing.T) {
	t.Parallel()

	a := New(KindIdentifier, "x", source.Span{})
	a.EndWhitespace = " "
	b := New(KindAssign, "=", source.Span{})
	b.EndWhitespace = "  "
	c := New(KindNumber, "1", source.Span{})
	require.Equal(t, "x =  1", Text([]*Token{a, b, c}))
	require.True(t, b.Is(KindPlus, KindAssign))
	require.Equal(t, `identifier "x"`, a.String())
}
