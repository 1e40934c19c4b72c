package parser

import (
	"fmt"

	"gopkg.axion.dev/compiler.go/internal/ast"
	"gopkg.axion.dev/compiler.go/internal/exc"
	"gopkg.axion.dev/compiler.go/internal/source"
	"gopkg.axion.dev/compiler.go/internal/spec"
	"gopkg.axion.dev/compiler.go/internal/token"
)

// statement parses one statement. It returns nil after reporting when the
// statement could not be parsed, in which case the parser has already moved
// on to the next statement.
func (p *Parser) statement() ast.Node {
	if n := p.macroApplication(); n != nil {
		return n
	}
	t := p.peek()
	var n ast.Node
	simple := true
	switch t.Kind {
	case token.KindLet:
		n = p.letDef()
	case token.KindMacro:
		n = p.macroDef()
	case token.KindFn:
		n, simple = p.funcDef(), false
	case token.KindClass:
		n, simple = p.classDef(), false
	case token.KindWhile:
		n, simple = p.whileStmt(), false
	case token.KindFor:
		n, simple = p.forStmt(), false
	case token.KindIf:
		n, simple = p.ifStmt(), false
	case token.KindBreak:
		p.advance()
		n = &ast.BreakExpr{}
		ast.SetSpan(n, t.Span)
	case token.KindContinue:
		p.advance()
		n = &ast.ContinueExpr{}
		ast.SetSpan(n, t.Span)
	case token.KindPass:
		p.advance()
		n = &ast.EmptyExpr{}
		ast.SetSpan(n, t.Span)
	case token.KindReturn:
		n = p.returnStmt()
	case token.KindAssert:
		n = p.assertStmt()
	case token.KindElif, token.KindElse, token.KindNoBreak:
		p.report(exc.CodeUnexpectedToken, t.Span, fmt.Sprintf("unexpected %s without a matching statement", t))
		p.advance()
		p.synchronize()
		return nil
	default:
		n = p.expression(0)
	}
	if n == nil {
		p.synchronize()
		return nil
	}
	if simple {
		p.terminator()
	}
	return n
}

func (p *Parser) name(what string) *ast.NameExpr {
	t := p.expect(token.KindIdentifier, what)
	if t == nil {
		return nil
	}
	return ast.NewName(t.Span, t.Value)
}

// block parses the body of a compound statement. The colon is optional and
// the body is either an indented block or the rest of the current line.
func (p *Parser) block() *ast.ScopeExpr {
	start := p.peek().Span.Start
	p.accept(token.KindColon)
	scope := ast.NewScope(source.Span{Start: start, End: start})
	if p.at(token.KindNewline) {
		p.skipSeparators()
		if p.expect(token.KindIndent, "an indented block") == nil {
			ast.SetSpan(scope, p.spanFrom(start))
			return scope
		}
		for {
			p.skipSeparators()
			if p.accept(token.KindOutdent) != nil || p.at(token.KindEOF) {
				break
			}
			if t := p.accept(token.KindIndent); t != nil {
				p.report(exc.CodeUnexpectedToken, t.Span, "unexpected indentation")
				continue
			}
			if n := p.statement(); n != nil {
				scope.Items = append(scope.Items, n)
			}
		}
		ast.SetSpan(scope, p.spanFrom(start))
		return scope
	}
	if p.at(token.KindEOF, token.KindOutdent, token.KindSemicolon) {
		found := p.peek()
		p.report(exc.CodeExpectedToken, found.Span, fmt.Sprintf("expected a block, found %s", found))
		ast.SetSpan(scope, p.spanFrom(start))
		return scope
	}
	for !p.at(token.KindNewline, token.KindEOF, token.KindOutdent) {
		if n := p.statement(); n != nil {
			scope.Items = append(scope.Items, n)
		}
		if p.prev.Is(token.KindNewline) {
			break
		}
	}
	ast.SetSpan(scope, p.spanFrom(start))
	return scope
}

func (p *Parser) condition() ast.Node {
	return p.expression(spec.AssignPrecedence + 1)
}

func (p *Parser) letDef() ast.Node {
	start := p.advance().Span.Start
	n := &ast.VarDef{}
	if n.Name = p.name("a variable name"); n.Name == nil {
		return nil
	}
	if p.accept(token.KindColon) != nil {
		if n.Type = p.typeName(); n.Type == nil {
			return nil
		}
	}
	if p.accept(token.KindAssign) != nil {
		if n.Value = p.expression(spec.AssignPrecedence + 1); n.Value == nil {
			return nil
		}
	}
	ast.SetSpan(n, p.spanFrom(start))
	return n
}

func (p *Parser) returnStmt() ast.Node {
	start := p.advance().Span.Start
	n := &ast.ReturnExpr{}
	if !spec.NeverStartsExpression(p.peek().Kind) {
		if n.Value = p.expression(0); n.Value == nil {
			return nil
		}
	}
	ast.SetSpan(n, p.spanFrom(start))
	return n
}

// assertStmt parses assert with its condition and optional message.
func (p *Parser) assertStmt() ast.Node {
	start := p.advance().Span.Start
	n := &ast.AssertExpr{}
	if n.Cond = p.condition(); n.Cond == nil {
		return nil
	}
	if p.accept(token.KindComma) != nil {
		if n.Message = p.condition(); n.Message == nil {
			return nil
		}
	}
	ast.SetSpan(n, p.spanFrom(start))
	return n
}

func (p *Parser) funcDef() ast.Node {
	start := p.advance().Span.Start
	n := &ast.FuncDef{}
	if n.Name = p.name("a function name"); n.Name == nil {
		return nil
	}
	if p.accept(token.KindParenOpen) != nil {
		ok := p.delimited(token.KindParenClose, "')'", func() bool {
			param := p.param()
			if param == nil {
				return false
			}
			n.Params = append(n.Params, param)
			return true
		})
		if !ok {
			return nil
		}
	}
	if p.accept(token.KindArrow) != nil {
		if n.Returns = p.typeName(); n.Returns == nil {
			return nil
		}
	}
	n.Body = p.block()
	ast.SetSpan(n, p.spanFrom(start))
	return n
}

func (p *Parser) param() *ast.FuncParam {
	start := p.peek().Span.Start
	n := &ast.FuncParam{}
	if n.Name = p.name("a parameter name"); n.Name == nil {
		return nil
	}
	if p.accept(token.KindColon) != nil {
		if n.Type = p.typeName(); n.Type == nil {
			return nil
		}
	}
	if p.accept(token.KindAssign) != nil {
		if n.Default = p.expression(spec.AssignPrecedence + 1); n.Default == nil {
			return nil
		}
	}
	ast.SetSpan(n, p.spanFrom(start))
	return n
}

func (p *Parser) classDef() ast.Node {
	start := p.advance().Span.Start
	n := &ast.ClassDef{}
	if n.Name = p.name("a class name"); n.Name == nil {
		return nil
	}
	if p.accept(token.KindParenOpen) != nil {
		ok := p.delimited(token.KindParenClose, "')'", func() bool {
			member := p.member()
			if member == nil {
				return false
			}
			n.DataMembers = append(n.DataMembers, member)
			return true
		})
		if !ok {
			return nil
		}
	}
	if p.accept(token.KindLeftPipe) != nil {
		for {
			base := p.typeName()
			if base == nil {
				return nil
			}
			n.Bases = append(n.Bases, base)
			if p.accept(token.KindComma) == nil {
				break
			}
		}
	}
	n.Body = p.block()
	ast.SetSpan(n, p.spanFrom(start))
	return n
}

// member parses a data member of a class header. Members share the shape of
// variable definitions without the let keyword.
func (p *Parser) member() *ast.VarDef {
	start := p.peek().Span.Start
	n := &ast.VarDef{}
	if n.Name = p.name("a member name"); n.Name == nil {
		return nil
	}
	if p.accept(token.KindColon) != nil {
		if n.Type = p.typeName(); n.Type == nil {
			return nil
		}
	}
	if p.accept(token.KindAssign) != nil {
		if n.Value = p.expression(spec.AssignPrecedence + 1); n.Value == nil {
			return nil
		}
	}
	ast.SetSpan(n, p.spanFrom(start))
	return n
}

func (p *Parser) whileStmt() ast.Node {
	start := p.advance().Span.Start
	n := &ast.WhileExpr{}
	if n.Cond = p.condition(); n.Cond == nil {
		return nil
	}
	n.Body = p.block()
	if p.accept(token.KindNoBreak) != nil {
		n.NoBreak = p.block()
	}
	ast.SetSpan(n, p.spanFrom(start))
	return n
}

// forTargetPrecedence stops the loop target before the in operator.
const forTargetPrecedence = 16

func (p *Parser) forStmt() ast.Node {
	start := p.advance().Span.Start
	n := &ast.ForExpr{}
	if n.Target = p.expression(forTargetPrecedence); n.Target == nil {
		return nil
	}
	if p.expect(token.KindIn, "'in'") == nil {
		return nil
	}
	if n.Iterable = p.condition(); n.Iterable == nil {
		return nil
	}
	n.Body = p.block()
	ast.SetSpan(n, p.spanFrom(start))
	return n
}

// ifStmt parses if and elif alike; an elif becomes a nested IfExpr in the
// else slot of the one before it.
func (p *Parser) ifStmt() ast.Node {
	start := p.advance().Span.Start
	n := &ast.IfExpr{}
	if n.Cond = p.condition(); n.Cond == nil {
		return nil
	}
	n.Then = p.block()
	switch {
	case p.at(token.KindElif):
		elif := p.ifStmt()
		if elif == nil {
			return nil
		}
		n.Else = elif
	case p.accept(token.KindElse) != nil:
		n.Else = p.block()
	}
	ast.SetSpan(n, p.spanFrom(start))
	return n
}

// delimited parses a comma separated list and consumes the closing token.
// A trailing comma is allowed. item returns false when it could not parse an
// element; the list is then skipped up to the closing token.
func (p *Parser) delimited(close token.Kind, what string, item func() bool) bool {
	for !p.at(close) {
		if p.at(token.KindEOF) {
			break
		}
		if !item() {
			p.skipUntil(close)
			p.accept(close)
			return false
		}
		if p.accept(token.KindComma) == nil {
			break
		}
	}
	return p.expect(close, what) != nil
}

// skipUntil advances to the closing token at the current bracket depth
// without consuming it.
func (p *Parser) skipUntil(close token.Kind) {
	depth := 0
	for !p.at(token.KindEOF, token.KindNewline) {
		t := p.peek()
		if depth == 0 && t.Kind == close {
			return
		}
		if family, open := spec.BracketOf(t.Kind); family != spec.NotBracket {
			switch {
			case open:
				depth = depth + 1
			case depth > 0:
				depth = depth - 1
			default:
				return
			}
		}
		p.advance()
	}
}
