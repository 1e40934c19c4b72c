package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.axion.dev/compiler.go/internal/source"
	"gopkg.axion.dev/compiler.go/internal/token"
)

func name(s string) *NameExpr {
	return NewName(source.Span{}, s)
}

func number(s string) *ConstantExpr {
	return NewConstant(token.New(token.KindNumber, s, source.Span{}))
}

func TestSlotsReparent(t *testing.T) {
	t.Parallel()

	a, b := name("a"), name("b")
	sum := NewBinary(a, token.KindPlus, b)
	require.Equal(t, Node(sum), a.Parent())

	c := name("c")
	slot := SlotOf(sum, a)
	require.NotNil(t, slot)
	require.Equal(t, "left", slot.Name())
	require.True(t, slot.Replace(a, c))
	require.Equal(t, Node(c), sum.Left)
	require.Equal(t, Node(sum), c.Parent())
	require.Nil(t, a.Parent())
	require.False(t, slot.Replace(a, b))

	require.True(t, slot.Replace(c, nil))
	require.Nil(t, sum.Left)
	require.Empty(t, slot.Nodes())
}

func TestListSlot(t *testing.T) {
	t.Parallel()

	x, y, z := name("x"), name("y"), name("z")
	s := NewScope(source.Span{}, x, z)
	items := s.Statements()
	items.Insert(1, y)
	require.Equal(t, []Node{x, y, z}, s.Items)
	require.Equal(t, Node(s), y.Parent())
	require.Equal(t, 2, items.IndexOf(z))

	snapshot := items.Nodes()
	require.True(t, items.Remove(x))
	require.Len(t, snapshot, 3)
	require.Equal(t, []Node{y, z}, s.Items)
	require.Nil(t, x.Parent())

	w := name("w")
	require.True(t, items.Replace(z, w))
	require.Equal(t, []Node{y, w}, s.Items)
	items.Insert(99, x)
	require.Equal(t, []Node{y, w, x}, s.Items)
}

func TestLinkAndEnclosingScope(t *testing.T) {
	t.Parallel()

	brk := &BreakExpr{}
	body := NewScope(source.Span{}, brk)
	loop := &WhileExpr{Cond: name("c"), Body: body}
	root := NewAst("/t.ax", source.Span{})
	root.Items = []Node{loop}
	Link(root)

	scope, stmt := EnclosingScope(brk)
	require.Equal(t, Scope(body), scope)
	require.Equal(t, Node(brk), stmt)

	scope, stmt = EnclosingScope(loop.Cond)
	require.Equal(t, Scope(root), scope)
	require.Equal(t, Node(loop), stmt)

	require.Equal(t, Node(root), Root(brk))
	scope, _ = EnclosingScope(root)
	require.Nil(t, scope)
}

func TestUniqueName(t *testing.T) {
	t.Parallel()

	root := NewAst("/t.ax", source.Span{})
	inner := NewScope(source.Span{}, &VarDef{Name: name("tmp0")})
	root.Items = []Node{inner}
	Link(root)

	require.Equal(t, "tmp1", inner.UniqueName("tmp{n}"))
	require.Equal(t, "tmp2", inner.UniqueName("tmp{n}"))
	require.Equal(t, "tmp1", root.UniqueName("tmp{n}"))
	require.Equal(t, "loop_0_nobreak", root.UniqueName("loop_{n}_nobreak"))
}

func TestPrint(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		node     Node
		expected string
	}{
		{
			name:     "precedence keeps needed parentheses",
			node:     NewBinary(NewBinary(name("a"), token.KindPlus, name("b")), token.KindStar, name("c")),
			expected: "(a + b) * c",
		},
		{
			name:     "precedence drops redundant parentheses",
			node:     NewBinary(name("a"), token.KindPlus, NewBinary(name("b"), token.KindStar, name("c"))),
			expected: "a + b * c",
		},
		{
			name:     "right associative power",
			node:     NewBinary(number("2"), token.KindPower, NewBinary(number("3"), token.KindPower, number("2"))),
			expected: "2 ** 3 ** 2",
		},
		{
			name:     "left nested power",
			node:     NewBinary(NewBinary(number("2"), token.KindPower, number("3")), token.KindPower, number("2")),
			expected: "(2 ** 3) ** 2",
		},
		{
			name:     "power under product keeps parentheses",
			node:     NewBinary(NewBinary(number("2"), token.KindPower, number("3")), token.KindStar, number("2")),
			expected: "(2 ** 3) * 2",
		},
		{
			name:     "product under power",
			node:     NewBinary(NewBinary(number("2"), token.KindStar, number("3")), token.KindPower, number("2")),
			expected: "(2 * 3) ** 2",
		},
		{
			name:     "product as power exponent",
			node:     NewBinary(number("2"), token.KindPower, NewBinary(number("3"), token.KindStar, number("2"))),
			expected: "2 ** 3 * 2",
		},
		{
			name:     "nested prefix operators stay apart",
			node:     NewUnary(token.KindMinus, NewUnary(token.KindMinus, name("x"))),
			expected: "- -x",
		},
		{
			name:     "not binds loosely",
			node:     NewUnary(token.KindNot, NewBinary(name("x"), token.KindIs, name("y"))),
			expected: "not x is y",
		},
		{
			name:     "call and member",
			node:     &FuncCallExpr{Target: NewMemberAccess(name("obj"), "run"), Args: []*FuncCallArg{NewArg(number("1"))}},
			expected: "obj.run(1)",
		},
		{
			name:     "union type",
			node:     &UnionTypeName{Left: NewSimpleType(source.Span{}, "int"), Right: &TupleTypeName{}},
			expected: "int | ()",
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.expected, Print(testCase.node))
		})
	}
}

func TestPrintStatements(t *testing.T) {
	t.Parallel()

	loop := &WhileExpr{
		Cond:    name("running"),
		Body:    NewScope(source.Span{}, &BreakExpr{}),
		NoBreak: NewScope(source.Span{}),
	}
	class := &ClassDef{
		Name:        name("Point"),
		DataMembers: []*VarDef{{Name: name("x"), Type: NewSimpleType(source.Span{}, "int")}},
		Body:        NewScope(source.Span{}),
	}
	cond := &IfExpr{
		Cond: name("a"),
		Then: NewScope(source.Span{}, &ReturnExpr{Value: number("1")}),
		Else: &IfExpr{
			Cond: name("b"),
			Then: NewScope(source.Span{}, &ContinueExpr{}),
			Else: NewScope(source.Span{}, &EmptyExpr{}),
		},
	}
	root := NewAst("/t.ax", source.Span{})
	root.Items = []Node{loop, class, cond}
	Link(root)

	expected := "while running:\n    break\nnobreak:\n    pass\n" +
		"class Point(x: int):\n    pass\n" +
		"if a:\n    return 1\nelif b:\n    continue\nelse:\n    pass\n"
	require.Equal(t, expected, Print(root))
}

func TestPatterns(t *testing.T) {
	t.Parallel()

	p := SequencePattern{Items: []Pattern{
		TokenPattern{Value: "unless"},
		ExprPattern{Name: "cond", Want: PatternExpr},
		OptionalPattern{Inner: TokenPattern{Value: "then"}},
		RepeatPattern{Inner: OrPattern{Alternatives: []Pattern{
			ExprPattern{Name: "a", Want: PatternName},
			ExprPattern{Name: "b", Want: PatternConst},
		}}},
		ExprPattern{Name: "body", Want: PatternScope},
	}}
	require.Equal(t, "('unless', cond: Expr, ['then'], {a: Name | b: Const}, body: Scope)", p.String())

	k, ok := ParsePatternKind("Infix")
	require.True(t, ok)
	require.True(t, k.Accepts(NewBinary(name("a"), token.KindPlus, name("b"))))
	require.False(t, k.Accepts(name("a")))
	require.True(t, PatternAtom.Accepts(number("1")))
	require.True(t, PatternType.Accepts(NewSimpleType(source.Span{}, "int")))
	require.False(t, PatternExpr.Accepts(nil))
	_, ok = ParsePatternKind("Nope")
	require.False(t, ok)
}
