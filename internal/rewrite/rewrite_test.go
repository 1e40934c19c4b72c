package rewrite

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.axion.dev/compiler.go/internal/ast"
	"gopkg.axion.dev/compiler.go/internal/exc"
	"gopkg.axion.dev/compiler.go/internal/lexer"
	"gopkg.axion.dev/compiler.go/internal/parser"
	"gopkg.axion.dev/compiler.go/internal/source"
	"gopkg.axion.dev/compiler.go/internal/token"
	"gopkg.axion.dev/compiler.go/internal/unit"
)

func parse(t *testing.T, input string) *ast.Ast {
	t.Helper()
	u := unit.New("/test.ax", input, exc.NewReporter(nil), source.DefaultOptions())
	lexer.New(u).Scan()
	tree, err := parser.New(u).Parse(context.Background())
	require.NoError(t, err)
	require.Empty(t, u.Reporter.Reported())
	return tree
}

func rewrite(t *testing.T, input string, opts ...Option) *ast.Ast {
	t.Helper()
	tree := parse(t, input)
	require.NoError(t, Rewrite(context.Background(), tree, opts...))
	require.NoError(t, Verify(tree, opts...))
	return tree
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func TestRewriteCatalogue(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
		opts     []Option
	}{
		{
			name:     "union type",
			input:    "let x: int | str | nil\n",
			expected: lines("let x: Union[Union[int, str], nil]"),
		},
		{
			name:     "empty tuple type",
			input:    "fn f() -> ():\n    pass\n",
			expected: lines("fn f() -> Unit:", "    pass"),
		},
		{
			name:     "empty tuple type disabled",
			input:    "fn f() -> ():\n    pass\n",
			expected: lines("fn f() -> ():", "    pass"),
			opts:     []Option{WithEmptyTupleRule(false)},
		},
		{
			name:     "is not",
			input:    "x is not y\n",
			expected: lines("not x is y"),
		},
		{
			name:     "pipeline",
			input:    "x |> f |> g\n",
			expected: lines("g(f(x))"),
		},
		{
			name:  "destructuring",
			input: "(x, y) = f()\n",
			expected: lines(
				"let unwrapped0 = f()",
				"x = unwrapped0.x",
				"y = unwrapped0.y",
			),
		},
		{
			name:  "destructuring avoids used names",
			input: "unwrapped0 = 1\n(a, b) = f()\n(c, d) = g()\n",
			expected: lines(
				"unwrapped0 = 1",
				"let unwrapped1 = f()",
				"a = unwrapped1.a",
				"b = unwrapped1.b",
				"let unwrapped2 = g()",
				"c = unwrapped2.c",
				"d = unwrapped2.d",
			),
		},
		{
			name:     "destructuring needs names",
			input:    "(x, y.z) = f()\n",
			expected: lines("(x, y.z) = f()"),
		},
		{
			name:  "nobreak",
			input: "while a:\n    if b:\n        break\n    break\nnobreak:\n    c()\n",
			expected: lines(
				"let loop_0_nobreak = true",
				"while a:",
				"    if b:",
				"        loop_0_nobreak = false",
				"        break",
				"    loop_0_nobreak = false",
				"    break",
				"if loop_0_nobreak:",
				"    c()",
			),
		},
		{
			name:  "nobreak ignores nested loops",
			input: "while a:\n    while b:\n        break\n    break\nnobreak:\n    pass\n",
			expected: lines(
				"let loop_0_nobreak = true",
				"while a:",
				"    while b:",
				"        break",
				"    loop_0_nobreak = false",
				"    break",
				"if loop_0_nobreak:",
				"    pass",
			),
		},
		{
			name:  "nobreak block is rewritten",
			input: "fn f():\n    while a:\n        pass\n    nobreak:\n        x |> g\n",
			expected: lines(
				"fn f():",
				"    let loop_0_nobreak = true",
				"    while a:",
				"        pass",
				"    if loop_0_nobreak:",
				"        g(x)",
			),
		},
		{
			name:  "data members",
			input: "class P(x: int, y: int = 0):\n    fn show():\n        pass\n",
			expected: lines(
				"class P:",
				"    let x: int",
				"    let y: int = 0",
				"    fn show():",
				"        pass",
			),
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			tree := rewrite(t, testCase.input, testCase.opts...)
			require.Equal(t, testCase.expected, ast.Print(tree))
		})
	}
}

func TestRewriteShapes(t *testing.T) {
	t.Parallel()

	tree := rewrite(t, "(x, y) = f()\nwhile a:\n    break\n    break\nnobreak:\n    pass\nx is not y\n")
	require.Len(t, tree.Items, 7)

	loop := tree.Items[4].(*ast.WhileExpr)
	require.Nil(t, loop.NoBreak)
	require.Len(t, loop.Body.Items, 4)
	require.IsType(t, &ast.IfExpr{}, tree.Items[5])

	not := tree.Items[6].(*ast.UnaryExpr)
	require.True(t, not.Is(token.KindNot))
	inner := not.Operand.(*ast.BinaryExpr)
	require.True(t, inner.Is(token.KindIs))
	require.Same(t, not, inner.Parent())

	ast.Walk(tree, func(n ast.Node) bool {
		for _, slot := range n.Slots() {
			for _, child := range slot.Nodes() {
				require.Same(t, n, child.Parent())
			}
		}
		return true
	})
}

func TestRewriteIdempotent(t *testing.T) {
	t.Parallel()

	tree := rewrite(t, lines(
		"class P(x: int | nil):",
		"    pass",
		"(a, b) = pair()",
		"while a:",
		"    if b: break",
		"nobreak:",
		"    a |> print",
		"fn f(x: ()) -> str | int:",
		"    return x is not nil",
	))
	once := ast.Print(tree)
	require.NoError(t, Rewrite(context.Background(), tree))
	require.Equal(t, once, ast.Print(tree))
	require.NoError(t, Verify(tree))
}

func TestRewriteInvariant(t *testing.T) {
	t.Parallel()

	loop := &ast.WhileExpr{
		Cond:    ast.NewName(source.Span{}, "a"),
		Body:    ast.NewScope(source.Span{}, &ast.BreakExpr{}),
		NoBreak: ast.NewScope(source.Span{}),
	}
	call := &ast.FuncCallExpr{Target: ast.NewName(source.Span{}, "f"), Args: []*ast.FuncCallArg{ast.NewArg(loop)}}
	tree := ast.NewAst("/test.ax", source.Span{})
	tree.Items = []ast.Node{call}
	ast.Link(tree)

	err := Rewrite(context.Background(), tree)
	require.ErrorIs(t, err, ErrInvariant)

	c := &Cursor{Node: ast.NewName(source.Span{}, "x")}
	require.ErrorIs(t, c.Replace(ast.NewName(source.Span{}, "y")), ErrInvariant)
	require.ErrorIs(t, Rewrite(context.Background(), nil), ErrInvariant)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	tree := parse(t, "x |> f\nlet y: a | b\n")
	err := Verify(tree)
	require.ErrorIs(t, err, ErrUnreduced)
	require.Contains(t, err.Error(), "pipeline")
	require.Contains(t, err.Error(), "union type")
}

func TestRewriteCancelled(t *testing.T) {
	t.Parallel()

	tree := parse(t, "x |> f\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, Rewrite(ctx, tree), context.Canceled)
	require.Error(t, Verify(tree))
}
