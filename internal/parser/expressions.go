package parser

import (
	"fmt"

	"gopkg.axion.dev/compiler.go/internal/ast"
	"gopkg.axion.dev/compiler.go/internal/exc"
	"gopkg.axion.dev/compiler.go/internal/source"
	"gopkg.axion.dev/compiler.go/internal/spec"
	"gopkg.axion.dev/compiler.go/internal/token"
)

// expression parses a chain of binary operators that bind at least as
// tightly as min.
func (p *Parser) expression(min uint8) ast.Node {
	left := p.unary()
	if left == nil {
		return nil
	}
	for {
		t := p.peek()
		op, ok := spec.Binary(t.Kind)
		if !ok || op.Precedence < min {
			return left
		}
		p.advance()
		next := op.Precedence + 1
		if op.Assoc == spec.RightToLeft {
			next = op.Precedence
		}
		right := p.expression(next)
		if right == nil {
			return nil
		}
		n := &ast.BinaryExpr{Left: left, Op: t, Right: right}
		ast.SetSpan(n, left.Span().Join(right.Span()))
		left = n
	}
}

func (p *Parser) unary() ast.Node {
	t := p.peek()
	op, ok := spec.Prefix(t.Kind)
	if !ok {
		return p.postfix()
	}
	p.advance()
	operand := p.expression(op.Precedence)
	if operand == nil {
		return nil
	}
	n := &ast.UnaryExpr{Op: t, Operand: operand}
	ast.SetSpan(n, source.NewSpan(t.Span.Start, operand.Span().End))
	return n
}

func (p *Parser) postfix() ast.Node {
	n := p.atom()
	for n != nil {
		t := p.peek()
		switch t.Kind {
		case token.KindParenOpen:
			n = p.call(n)
		case token.KindBracketOpen:
			n = p.index(n)
		case token.KindDot:
			p.advance()
			member := p.name("a member name")
			if member == nil {
				return nil
			}
			m := &ast.MemberAccessExpr{Target: n, Member: member}
			ast.SetSpan(m, n.Span().Join(member.Span()))
			n = m
		case token.KindIncrement, token.KindDecrement:
			p.advance()
			u := &ast.UnaryExpr{Op: t, Operand: n, Postfix: true}
			ast.SetSpan(u, n.Span().Join(t.Span))
			return u
		default:
			return n
		}
	}
	return nil
}

func (p *Parser) call(target ast.Node) ast.Node {
	p.advance()
	n := &ast.FuncCallExpr{Target: target}
	ok := p.delimited(token.KindParenClose, "')'", func() bool {
		value := p.expression(spec.AssignPrecedence)
		if value == nil {
			return false
		}
		arg := &ast.FuncCallArg{Value: value}
		if b, isBinary := value.(*ast.BinaryExpr); isBinary && b.Is(token.KindAssign) {
			if name, isName := b.Left.(*ast.NameExpr); isName {
				arg.Name = name
				arg.Value = b.Right
			}
		}
		ast.SetSpan(arg, value.Span())
		n.Args = append(n.Args, arg)
		return true
	})
	if !ok {
		return nil
	}
	ast.SetSpan(n, target.Span().Join(p.prev.Span))
	return n
}

func (p *Parser) index(target ast.Node) ast.Node {
	open := p.advance()
	var items []ast.Node
	ok := p.delimited(token.KindBracketClose, "']'", func() bool {
		item := p.indexItem()
		if item == nil {
			return false
		}
		items = append(items, item)
		return true
	})
	if !ok {
		return nil
	}
	n := &ast.IndexerExpr{Target: target}
	switch len(items) {
	case 0:
		p.report(exc.CodeInvalidIndexerExpression, p.spanFrom(open.Span.Start), "expected an index expression")
		return nil
	case 1:
		n.Index = items[0]
	default:
		tuple := &ast.TupleExpr{Items: items}
		ast.SetSpan(tuple, items[0].Span().Join(items[len(items)-1].Span()))
		n.Index = tuple
	}
	ast.SetSpan(n, target.Span().Join(p.prev.Span))
	return n
}

// indexItem parses one element of a subscript: an expression or a slice of
// up to three colon separated parts. Only the start of a slice may be left
// out before its colon.
func (p *Parser) indexItem() ast.Node {
	start := p.peek()
	if start.Is(token.KindComma, token.KindBracketClose) {
		p.report(exc.CodeInvalidIndexerExpression, start.Span, fmt.Sprintf("expected an index expression, found %s", start))
		return nil
	}
	var from ast.Node
	if !p.at(token.KindColon, token.KindDoubleColon) {
		if from = p.expression(spec.AssignPrecedence + 1); from == nil {
			return nil
		}
		if !p.at(token.KindColon, token.KindDoubleColon) {
			return from
		}
	}
	n := &ast.SliceExpr{From: from}
	// :: lexes as one token and leaves out the stop.
	step := p.accept(token.KindDoubleColon) != nil
	if !step {
		p.advance()
		if !p.at(token.KindColon, token.KindDoubleColon, token.KindComma, token.KindBracketClose) {
			if n.To = p.expression(spec.AssignPrecedence + 1); n.To == nil {
				return nil
			}
		}
		step = p.accept(token.KindColon) != nil
	}
	if step && !p.at(token.KindColon, token.KindDoubleColon, token.KindComma, token.KindBracketClose) {
		if n.Step = p.expression(spec.AssignPrecedence + 1); n.Step == nil {
			return nil
		}
	}
	if t := p.peek(); t.Is(token.KindColon, token.KindDoubleColon) {
		p.report(exc.CodeInvalidIndexerExpression, t.Span, "a slice has at most three parts")
		return nil
	}
	ast.SetSpan(n, p.spanFrom(start.Span.Start))
	return n
}

func (p *Parser) atom() ast.Node {
	t := p.peek()
	switch t.Kind {
	case token.KindIdentifier:
		p.advance()
		return ast.NewName(t.Span, t.Value)
	case token.KindNumber, token.KindString, token.KindChar, token.KindTrue, token.KindFalse, token.KindNil:
		p.advance()
		return ast.NewConstant(t)
	case token.KindParenOpen:
		return p.parenthesized()
	case token.KindBracketOpen:
		return p.list()
	}
	p.report(exc.CodeUnexpectedToken, t.Span, fmt.Sprintf("expected an expression, found %s", t))
	return nil
}

// parenthesized parses a grouping, which yields the inner expression, or a
// tuple. A single element tuple needs a trailing comma.
func (p *Parser) parenthesized() ast.Node {
	open := p.advance()
	if p.accept(token.KindParenClose) != nil {
		n := &ast.TupleExpr{}
		ast.SetSpan(n, p.spanFrom(open.Span.Start))
		return n
	}
	first := p.expression(spec.AssignPrecedence + 1)
	if first == nil {
		p.skipUntil(token.KindParenClose)
		p.accept(token.KindParenClose)
		return nil
	}
	if p.accept(token.KindParenClose) != nil {
		return first
	}
	if p.at(token.KindFor) {
		return p.comprehension(open, first, token.KindParenClose, "')'")
	}
	if p.expect(token.KindComma, "',' or ')'") == nil {
		p.skipUntil(token.KindParenClose)
		p.accept(token.KindParenClose)
		return nil
	}
	n := &ast.TupleExpr{Items: []ast.Node{first}}
	ok := p.delimited(token.KindParenClose, "')'", func() bool {
		item := p.expression(spec.AssignPrecedence + 1)
		if item == nil {
			return false
		}
		n.Items = append(n.Items, item)
		return true
	})
	if !ok {
		return nil
	}
	ast.SetSpan(n, p.spanFrom(open.Span.Start))
	return n
}

// list parses a list display, or a list comprehension when a for clause
// follows the first item.
func (p *Parser) list() ast.Node {
	open := p.advance()
	n := &ast.ListExpr{}
	if !p.at(token.KindBracketClose) {
		first := p.expression(spec.AssignPrecedence + 1)
		if first == nil {
			p.skipUntil(token.KindBracketClose)
			p.accept(token.KindBracketClose)
			return nil
		}
		if p.at(token.KindFor) {
			return p.comprehension(open, first, token.KindBracketClose, "']'")
		}
		n.Items = append(n.Items, first)
		if p.accept(token.KindComma) == nil {
			if p.expect(token.KindBracketClose, "']'") == nil {
				return nil
			}
			ast.SetSpan(n, p.spanFrom(open.Span.Start))
			return n
		}
	}
	ok := p.delimited(token.KindBracketClose, "']'", func() bool {
		item := p.expression(spec.AssignPrecedence + 1)
		if item == nil {
			return false
		}
		n.Items = append(n.Items, item)
		return true
	})
	if !ok {
		return nil
	}
	ast.SetSpan(n, p.spanFrom(open.Span.Start))
	return n
}

// comprehension parses the for clauses that follow target up to and
// including the closing bracket.
func (p *Parser) comprehension(open *token.Token, target ast.Node, close token.Kind, what string) ast.Node {
	fail := func() ast.Node {
		p.skipUntil(close)
		p.accept(close)
		return nil
	}
	n := &ast.ComprehensionExpr{Target: target, List: close == token.KindBracketClose}
	for p.at(token.KindFor) {
		start := p.advance().Span.Start
		c := &ast.ComprehensionClause{}
		if c.Item = p.expression(forTargetPrecedence); c.Item == nil {
			return fail()
		}
		if p.expect(token.KindIn, "'in'") == nil {
			return fail()
		}
		if c.Iterable = p.condition(); c.Iterable == nil {
			return fail()
		}
		if p.accept(token.KindIf) != nil {
			if c.Cond = p.condition(); c.Cond == nil {
				return fail()
			}
		}
		ast.SetSpan(c, p.spanFrom(start))
		n.Clauses = append(n.Clauses, c)
	}
	if p.expect(close, what) == nil {
		return nil
	}
	ast.SetSpan(n, p.spanFrom(open.Span.Start))
	return n
}

// typeName parses a type, joining alternatives with | into unions.
func (p *Parser) typeName() ast.TypeName {
	left := p.typeAtom()
	if left == nil {
		return nil
	}
	for p.accept(token.KindPipe) != nil {
		right := p.typeAtom()
		if right == nil {
			return nil
		}
		u := &ast.UnionTypeName{Left: left, Right: right}
		ast.SetSpan(u, left.Span().Join(right.Span()))
		left = u
	}
	return left
}

func (p *Parser) typeAtom() ast.TypeName {
	t := p.peek()
	switch t.Kind {
	case token.KindIdentifier:
		p.advance()
		name := t.Value
		for p.at(token.KindDot) && p.peekN(1).Kind == token.KindIdentifier {
			p.advance()
			name = name + "." + p.advance().Value
		}
		var out ast.TypeName = ast.NewSimpleType(p.spanFrom(t.Span.Start), name)
		if p.accept(token.KindBracketOpen) == nil {
			return out
		}
		g := &ast.GenericTypeName{Target: out}
		ok := p.delimited(token.KindBracketClose, "']'", func() bool {
			arg := p.typeName()
			if arg == nil {
				return false
			}
			g.Args = append(g.Args, arg)
			return true
		})
		if !ok {
			return nil
		}
		ast.SetSpan(g, p.spanFrom(t.Span.Start))
		return g
	case token.KindNil:
		p.advance()
		return ast.NewSimpleType(t.Span, t.Value)
	case token.KindParenOpen:
		p.advance()
		n := &ast.TupleTypeName{}
		ok := p.delimited(token.KindParenClose, "')'", func() bool {
			item := p.typeName()
			if item == nil {
				return false
			}
			n.Types = append(n.Types, item)
			return true
		})
		if !ok {
			return nil
		}
		ast.SetSpan(n, p.spanFrom(t.Span.Start))
		return n
	}
	p.report(exc.CodeExpectedToken, t.Span, fmt.Sprintf("expected a type, found %s", t))
	return nil
}
