package rewrite

import (
	"gopkg.axion.dev/compiler.go/internal/ast"
	"gopkg.axion.dev/compiler.go/internal/source"
	"gopkg.axion.dev/compiler.go/internal/token"
)

const (
	unionType     = "Union"
	unitType      = "Unit"
	unwrappedName = "unwrapped{n}"
	nobreakName   = "loop_{n}_nobreak"
)

type rule struct {
	name  string
	apply func(c *Cursor) error
}

func catalogue(emptyTuple bool) []rule {
	rules := []rule{
		{name: "union type", apply: unionTypeRule},
	}
	if emptyTuple {
		rules = append(rules, rule{name: "empty tuple type", apply: emptyTupleRule})
	}
	return append(rules,
		rule{name: "is not", apply: isNotRule},
		rule{name: "pipeline", apply: pipelineRule},
		rule{name: "destructuring", apply: destructureRule},
		rule{name: "nobreak", apply: nobreakRule},
		rule{name: "data members", apply: dataMembersRule},
	)
}

// A | B becomes Union[A, B].
func unionTypeRule(c *Cursor) error {
	n, ok := c.Node.(*ast.UnionTypeName)
	if !ok {
		return nil
	}
	g := &ast.GenericTypeName{
		Target: ast.NewSimpleType(n.Span(), unionType),
		Args:   []ast.TypeName{n.Left, n.Right},
	}
	ast.SetSpan(g, n.Span())
	ast.Link(g)
	return c.Replace(g)
}

func emptyTupleRule(c *Cursor) error {
	n, ok := c.Node.(*ast.TupleTypeName)
	if !ok || len(n.Types) > 0 {
		return nil
	}
	return c.Replace(ast.NewSimpleType(n.Span(), unitType))
}

func isNotPair(n ast.Node) (*ast.BinaryExpr, *ast.UnaryExpr, bool) {
	bin, ok := n.(*ast.BinaryExpr)
	if !ok || !bin.Is(token.KindIs) {
		return nil, nil, false
	}
	un, ok := bin.Right.(*ast.UnaryExpr)
	if !ok || un.Postfix || !un.Is(token.KindNot) {
		return nil, nil, false
	}
	return bin, un, true
}

// x is (not y) becomes not (x is y).
func isNotRule(c *Cursor) error {
	bin, un, ok := isNotPair(c.Node)
	if !ok {
		return nil
	}
	inner := &ast.BinaryExpr{Left: bin.Left, Op: bin.Op, Right: un.Operand}
	ast.SetSpan(inner, bin.Span())
	out := &ast.UnaryExpr{Op: un.Op, Operand: inner}
	ast.SetSpan(out, bin.Span())
	ast.Link(out)
	return c.Replace(out)
}

// arg |> f becomes f(arg).
func pipelineRule(c *Cursor) error {
	bin, ok := c.Node.(*ast.BinaryExpr)
	if !ok || !bin.Is(token.KindRightPipe) {
		return nil
	}
	call := &ast.FuncCallExpr{Target: bin.Right, Args: []*ast.FuncCallArg{ast.NewArg(bin.Left)}}
	ast.SetSpan(call, bin.Span())
	ast.Link(call)
	return c.Replace(call)
}

func destructuring(n ast.Node) (*ast.BinaryExpr, []*ast.NameExpr, bool) {
	bin, ok := n.(*ast.BinaryExpr)
	if !ok || !bin.Is(token.KindAssign) {
		return nil, nil, false
	}
	tuple, ok := bin.Left.(*ast.TupleExpr)
	if !ok || len(tuple.Items) == 0 {
		return nil, nil, false
	}
	names := make([]*ast.NameExpr, 0, len(tuple.Items))
	for _, item := range tuple.Items {
		name, ok := item.(*ast.NameExpr)
		if !ok {
			return nil, nil, false
		}
		names = append(names, name)
	}
	return bin, names, true
}

// isStatement reports whether n is an item of its scope, returning the
// scope.
func isStatement(n ast.Node) (ast.Scope, bool, error) {
	scope, stmt := ast.EnclosingScope(n)
	if scope == nil {
		return nil, false, invariant("%T at %s has no enclosing scope", n, n.Span())
	}
	return scope, stmt == n, nil
}

// (x, y) = expr becomes
//
//	let unwrapped0 = expr
//	x = unwrapped0.x
//	y = unwrapped0.y
func destructureRule(c *Cursor) error {
	bin, names, ok := destructuring(c.Node)
	if !ok {
		return nil
	}
	scope, statement, err := isStatement(bin)
	if err != nil || !statement {
		return err
	}
	span := bin.Span()
	tmp := scope.UniqueName(unwrappedName)
	def := &ast.VarDef{Name: ast.NewName(span, tmp), Value: bin.Right}
	ast.SetSpan(def, span)
	ast.Link(def)

	items := scope.Statements()
	at := items.IndexOf(bin)
	if at < 0 {
		return invariant("assignment at %s is not an item of its scope", span)
	}
	if err := c.Replace(def); err != nil {
		return err
	}
	assigns := make([]ast.Node, 0, len(names))
	for _, name := range names {
		target := ast.NewName(name.Span(), name.Name)
		read := ast.NewMemberAccess(ast.NewName(span, tmp), name.Name)
		assigns = append(assigns, ast.NewBinary(target, token.KindAssign, read))
	}
	items.Insert(at+1, assigns...)
	return nil
}

// while with a nobreak block becomes
//
//	let loop_0_nobreak = true
//	while cond:
//	    loop_0_nobreak = false
//	    break
//	if loop_0_nobreak:
//	    nobreak block
func nobreakRule(c *Cursor) error {
	loop, ok := c.Node.(*ast.WhileExpr)
	if !ok || loop.NoBreak == nil {
		return nil
	}
	scope, statement, err := isStatement(loop)
	if err != nil {
		return err
	}
	if !statement {
		return invariant("loop at %s is not an item of its scope", loop.Span())
	}
	span := loop.Span()
	flag := scope.UniqueName(nobreakName)

	for _, brk := range breaksOf(loop) {
		inner, statement, err := isStatement(brk)
		if err != nil {
			return err
		}
		if !statement {
			return invariant("break at %s is not an item of its scope", brk.Span())
		}
		items := inner.Statements()
		items.Insert(items.IndexOf(brk), assign(brk.Span(), flag, token.KindFalse))
	}

	items := scope.Statements()
	init := &ast.VarDef{Name: ast.NewName(span, flag), Value: constant(span, token.KindTrue)}
	ast.SetSpan(init, span)
	ast.Link(init)
	items.Insert(items.IndexOf(loop), init)

	body := loop.NoBreak
	if slot := ast.SlotOf(loop, body); slot == nil || !slot.Replace(body, nil) {
		return invariant("nobreak block at %s is not held by its loop", body.Span())
	}
	check := &ast.IfExpr{Cond: ast.NewName(body.Span(), flag), Then: body}
	ast.SetSpan(check, body.Span())
	ast.Link(check)
	items.Insert(items.IndexOf(loop)+1, check)
	c.Traversed = true
	return nil
}

// breaksOf collects the break statements that leave loop. Breaks of nested
// loops and of nested definitions are not included.
func breaksOf(loop *ast.WhileExpr) []*ast.BreakExpr {
	var out []*ast.BreakExpr
	ast.Walk(loop.Body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.BreakExpr:
			out = append(out, n)
		case *ast.WhileExpr, *ast.ForExpr, *ast.FuncDef, *ast.ClassDef:
			return false
		}
		return true
	})
	return out
}

// class C(x: int) moves its data members to the front of the body in
// declaration order.
func dataMembersRule(c *Cursor) error {
	class, ok := c.Node.(*ast.ClassDef)
	if !ok || len(class.DataMembers) == 0 {
		return nil
	}
	if class.Body == nil {
		class.Body = ast.NewScope(class.Span())
		ast.Link(class)
	}
	members := make([]ast.Node, 0, len(class.DataMembers))
	slot := class.Members()
	for _, m := range slot.Nodes() {
		slot.Remove(m)
		members = append(members, m)
	}
	class.Body.Statements().Insert(0, members...)
	c.Traversed = true
	return nil
}

func constant(span source.Span, kind token.Kind) *ast.ConstantExpr {
	return ast.NewConstant(token.New(kind, kind.String(), span))
}

func assign(span source.Span, name string, value token.Kind) ast.Node {
	n := ast.NewBinary(ast.NewName(span, name), token.KindAssign, constant(span, value))
	ast.SetSpan(n, span)
	return n
}
