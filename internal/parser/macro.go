package parser

import (
	"fmt"

	"gopkg.axion.dev/compiler.go/internal/ast"
	"gopkg.axion.dev/compiler.go/internal/exc"
	"gopkg.axion.dev/compiler.go/internal/source"
	"gopkg.axion.dev/compiler.go/internal/spec"
	"gopkg.axion.dev/compiler.go/internal/token"
)

// macroDef parses a macro definition and registers it so that following
// statements can use it.
func (p *Parser) macroDef() ast.Node {
	start := p.advance().Span.Start
	name := p.expect(token.KindIdentifier, "a macro name")
	if name == nil {
		return nil
	}
	if p.expect(token.KindParenOpen, "'('") == nil {
		return nil
	}
	items := p.patternList(token.KindParenClose)
	if items == nil {
		return nil
	}
	n := &ast.MacroDef{Name: name.Value, Pattern: group(items)}
	ast.SetSpan(n, p.spanFrom(start))
	p.macros = append(p.macros, n)
	if p.logger != nil {
		p.logger.Debug("macro defined", "name", n.Name, "pattern", n.Pattern.String())
	}
	return n
}

func group(items []ast.Pattern) ast.Pattern {
	if len(items) == 1 {
		return items[0]
	}
	return ast.SequencePattern{Items: items}
}

// patternList parses comma separated patterns up to and including the
// closing token. It returns nil when the list is malformed.
func (p *Parser) patternList(close token.Kind) []ast.Pattern {
	items := []ast.Pattern{}
	ok := p.delimited(close, fmt.Sprintf("'%s'", closeText(close)), func() bool {
		item := p.alternation()
		if item == nil {
			return false
		}
		items = append(items, item)
		return true
	})
	if !ok {
		return nil
	}
	if len(items) == 0 {
		p.report(exc.CodeInvalidMacroPattern, p.prev.Span, "empty macro pattern")
		return nil
	}
	return items
}

func closeText(k token.Kind) string {
	switch k {
	case token.KindBracketClose:
		return "]"
	case token.KindBraceClose:
		return "}"
	}
	return ")"
}

func (p *Parser) alternation() ast.Pattern {
	first := p.patternItem()
	if first == nil || !p.at(token.KindPipe) {
		return first
	}
	or := ast.OrPattern{Alternatives: []ast.Pattern{first}}
	for p.accept(token.KindPipe) != nil {
		next := p.patternItem()
		if next == nil {
			return nil
		}
		or.Alternatives = append(or.Alternatives, next)
	}
	return or
}

func (p *Parser) patternItem() ast.Pattern {
	t := p.peek()
	switch t.Kind {
	case token.KindString:
		p.advance()
		if t.Content == "" {
			p.report(exc.CodeInvalidMacroPattern, t.Span, "token pattern is empty")
			return nil
		}
		return ast.TokenPattern{Value: t.Content}
	case token.KindIdentifier:
		p.advance()
		if p.expect(token.KindColon, "':' after capture name") == nil {
			return nil
		}
		kind := p.peek()
		if kind.Kind != token.KindIdentifier {
			p.report(exc.CodeInvalidMacroPattern, kind.Span, fmt.Sprintf("expected an expression kind, found %s", kind))
			return nil
		}
		p.advance()
		want, ok := ast.ParsePatternKind(kind.Value)
		if !ok {
			p.report(exc.CodeInvalidMacroPattern, kind.Span, fmt.Sprintf("unknown expression kind %q", kind.Value))
			return nil
		}
		return ast.ExprPattern{Name: t.Value, Want: want}
	case token.KindBracketOpen:
		p.advance()
		items := p.patternList(token.KindBracketClose)
		if items == nil {
			return nil
		}
		return ast.OptionalPattern{Inner: group(items)}
	case token.KindBraceOpen:
		p.advance()
		items := p.patternList(token.KindBraceClose)
		if items == nil {
			return nil
		}
		return ast.RepeatPattern{Inner: group(items)}
	case token.KindParenOpen:
		p.advance()
		items := p.patternList(token.KindParenClose)
		if items == nil {
			return nil
		}
		return ast.SequencePattern{Items: items}
	}
	p.report(exc.CodeInvalidMacroPattern, t.Span, fmt.Sprintf("unexpected %s in macro pattern", t))
	return nil
}

// macroApplication tries every registered macro at the current statement
// start. A macro matches when its pattern consumes at least one token and
// the statement ends right after it. Failed attempts leave no trace.
func (p *Parser) macroApplication() ast.Node {
	if len(p.macros) == 0 {
		return nil
	}
	start := p.peek().Span.Start
	for _, m := range p.macros {
		cp := p.checkpoint()
		p.parts = append(p.parts, &capture{})
		matched := p.match(m.Pattern)
		c := p.parts[len(p.parts)-1]
		p.parts = p.parts[:len(p.parts)-1]
		if matched && p.pos > cp.pos && p.statementEnds() {
			n := &ast.MacroApplicationExpr{Macro: m, Parts: c.parts, Layout: c.layout}
			ast.SetSpan(n, source.NewSpan(start, p.last))
			// A trailing block already consumed its own line end.
			if !p.prev.Is(token.KindNewline, token.KindOutdent) {
				p.terminator()
			}
			return n
		}
		p.restore(cp)
	}
	return nil
}

func (p *Parser) statementEnds() bool {
	return p.prev.Is(token.KindNewline, token.KindOutdent) ||
		p.at(token.KindNewline, token.KindSemicolon, token.KindOutdent, token.KindEOF)
}

func (p *Parser) match(pattern ast.Pattern) bool {
	switch pattern := pattern.(type) {
	case ast.TokenPattern:
		t := p.peek()
		if t.Kind == token.KindEOF || t.Value != pattern.Value {
			return false
		}
		p.advance()
		p.record(t.Value, nil)
		return true
	case ast.ExprPattern:
		return p.capture(pattern)
	case ast.OptionalPattern:
		cp := p.checkpoint()
		if !p.match(pattern.Inner) {
			p.restore(cp)
		}
		return true
	case ast.RepeatPattern:
		for {
			cp := p.checkpoint()
			if !p.match(pattern.Inner) || p.pos == cp.pos {
				p.restore(cp)
				return true
			}
		}
	case ast.SequencePattern:
		for _, item := range pattern.Items {
			if !p.match(item) {
				return false
			}
		}
		return true
	case ast.OrPattern:
		for _, alt := range pattern.Alternatives {
			cp := p.checkpoint()
			if p.match(alt) {
				return true
			}
			p.restore(cp)
		}
	}
	return false
}

// capture parses the syntax a pattern asks for. When the next token cannot
// start an expression the capture is left out instead of failing, so that a
// following token pattern still gets its chance.
func (p *Parser) capture(pattern ast.ExprPattern) bool {
	if pattern.Want != ast.PatternScope && spec.NeverStartsExpression(p.peek().Kind) {
		return true
	}
	before := len(p.pending)
	var n ast.Node
	switch pattern.Want {
	case ast.PatternAtom:
		n = p.atom()
	case ast.PatternName:
		if t := p.accept(token.KindIdentifier); t != nil {
			n = ast.NewName(t.Span, t.Value)
		}
	case ast.PatternConst:
		if p.peek().Kind.IsLiteral() {
			n = ast.NewConstant(p.advance())
		}
	case ast.PatternType:
		if t := p.typeName(); t != nil {
			n = t
		}
	case ast.PatternScope:
		n = p.block()
	default:
		n = p.expression(spec.AssignPrecedence + 1)
	}
	if n == nil || len(p.pending) > before || !pattern.Want.Accepts(n) {
		return false
	}
	p.record("", n)
	return true
}

func (p *Parser) record(text string, n ast.Node) {
	c := p.parts[len(p.parts)-1]
	if n != nil {
		c.parts = append(c.parts, n)
		c.layout = append(c.layout, "")
		return
	}
	c.layout = append(c.layout, text)
}
