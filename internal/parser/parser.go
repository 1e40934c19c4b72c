// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package parser builds syntax trees from lexed units.
package parser

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.axion.dev/compiler.go/internal/ast"
	"gopkg.axion.dev/compiler.go/internal/exc"
	"gopkg.axion.dev/compiler.go/internal/iter"
	"gopkg.axion.dev/compiler.go/internal/source"
	"gopkg.axion.dev/compiler.go/internal/token"
	"gopkg.axion.dev/compiler.go/internal/unit"
)

type Option func(p *Parser)

// WithMacros registers macros that are in effect before the first statement.
func WithMacros(macros ...*ast.MacroDef) Option {
	return func(p *Parser) {
		p.macros = append(p.macros, macros...)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// Parser is a recursive descent parser that uses precedence climbing for
// expressions. Diagnostics are held back until the parse completes so that
// speculative macro matches can discard the ones they caused.
type Parser struct {
	unit    *unit.Unit
	tokens  []*token.Token
	pos     int
	prev    *token.Token
	last    source.Position
	macros  []*ast.MacroDef
	pending []exc.Exception
	parts   []*capture
	logger  *slog.Logger
}

type capture struct {
	parts  []ast.Node
	layout []string
}

type checkpoint struct {
	pos     int
	prev    *token.Token
	last    source.Position
	pending int
	parts   int
	layout  int
}

func New(u *unit.Unit, opts ...Option) *Parser {
	p := &Parser{unit: u}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse builds the tree of the unit from its tokens and stores it in the
// unit. Syntax problems are reported to the unit; the returned error is only
// set when ctx is cancelled.
func (p *Parser) Parse(ctx context.Context) (*ast.Ast, error) {
	if err := p.load(ctx); err != nil {
		return nil, err
	}
	root := ast.NewAst(p.unit.Path, source.Span{})
	for {
		if err := ctx.Err(); err != nil {
			p.flush()
			return nil, err
		}
		p.skipSeparators()
		t := p.peek()
		if t.Kind == token.KindEOF {
			break
		}
		switch t.Kind {
		case token.KindIndent:
			p.report(exc.CodeUnexpectedToken, t.Span, "unexpected indentation")
			p.advance()
			continue
		case token.KindOutdent:
			p.advance()
			continue
		}
		if n := p.statement(); n != nil {
			root.Items = append(root.Items, n)
		}
	}
	ast.SetSpan(root, source.Span{End: p.peek().Span.End})
	ast.Link(root)
	p.flush()
	p.unit.Tree = root
	if p.logger != nil {
		p.logger.Debug("parsed", slog.String("unit", p.unit.Path), slog.Int("statements", len(root.Items)), slog.Int("macros", len(p.macros)))
	}
	return root, nil
}

// Macros returns every macro known to the parser, including the ones defined
// by the parsed source.
func (p *Parser) Macros() []*ast.MacroDef {
	return p.macros
}

func (p *Parser) load(ctx context.Context) error {
	significant := iter.FilterFunc[*token.Token](func(ctx context.Context, t *token.Token) bool {
		switch t.Kind {
		case token.KindWhitespace, token.KindComment, token.KindInvalid, token.KindUnknown:
			// Already reported by the lexer.
			return false
		default:
			return true
		}
	})
	tokens, err := iter.Collect(ctx, iter.NewIteratorFilter(iter.NewSlice(p.unit.Tokens), iter.Filter[*token.Token](significant)))
	if err != nil {
		return err
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.KindEOF {
		var at source.Position
		if len(tokens) > 0 {
			at = tokens[len(tokens)-1].Span.End
		}
		tokens = append(tokens, token.New(token.KindEOF, "", source.Span{Start: at, End: at}))
	}
	p.tokens = tokens
	p.pos = 0
	return nil
}

func (p *Parser) flush() {
	for _, e := range p.pending {
		_ = p.unit.Reporter.Report(e)
	}
	p.pending = nil
}

func (p *Parser) report(code string, span source.Span, message string) {
	p.pending = append(p.pending, p.unit.Exception(code, span, message))
}

func (p *Parser) peek() *token.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) *token.Token {
	x := p.pos + n
	if x >= len(p.tokens) {
		x = len(p.tokens) - 1
	}
	return p.tokens[x]
}

func (p *Parser) at(kinds ...token.Kind) bool {
	return p.peek().Is(kinds...)
}

func (p *Parser) advance() *token.Token {
	t := p.peek()
	if t.Kind != token.KindEOF {
		p.pos = p.pos + 1
	}
	p.prev = t
	p.last = t.Span.End
	return t
}

func (p *Parser) accept(kind token.Kind) *token.Token {
	if p.at(kind) {
		return p.advance()
	}
	return nil
}

// expect consumes a token of the given kind or reports what was found
// instead.
func (p *Parser) expect(kind token.Kind, what string) *token.Token {
	if p.at(kind) {
		return p.advance()
	}
	found := p.peek()
	p.report(exc.CodeExpectedToken, found.Span, fmt.Sprintf("expected %s, found %s", what, found))
	return nil
}

func (p *Parser) unexpected(t *token.Token, where string) {
	p.report(exc.CodeUnexpectedToken, t.Span, fmt.Sprintf("unexpected %s %s", t, where))
}

func (p *Parser) spanFrom(start source.Position) source.Span {
	return source.NewSpan(start, p.last)
}

func (p *Parser) skipSeparators() {
	for p.at(token.KindNewline, token.KindSemicolon) {
		p.advance()
	}
}

// synchronize skips to the start of the next statement at the current
// nesting level, stepping over whole indented blocks on the way.
func (p *Parser) synchronize() {
	depth := 0
	for {
		switch p.peek().Kind {
		case token.KindEOF:
			return
		case token.KindNewline, token.KindSemicolon:
			p.advance()
			if depth == 0 && !p.at(token.KindIndent) {
				return
			}
			continue
		case token.KindIndent:
			depth = depth + 1
		case token.KindOutdent:
			if depth == 0 {
				return
			}
			depth = depth - 1
			p.advance()
			if depth == 0 {
				return
			}
			continue
		}
		p.advance()
	}
}

func (p *Parser) terminator() {
	switch {
	case p.at(token.KindNewline, token.KindSemicolon):
		p.advance()
	case p.at(token.KindOutdent, token.KindEOF):
	default:
		p.unexpected(p.peek(), "after statement")
		p.synchronize()
	}
}

func (p *Parser) checkpoint() checkpoint {
	cp := checkpoint{pos: p.pos, prev: p.prev, last: p.last, pending: len(p.pending)}
	if len(p.parts) > 0 {
		top := p.parts[len(p.parts)-1]
		cp.parts = len(top.parts)
		cp.layout = len(top.layout)
	}
	return cp
}

func (p *Parser) restore(cp checkpoint) {
	p.pos = cp.pos
	p.prev = cp.prev
	p.last = cp.last
	p.pending = p.pending[:cp.pending]
	if len(p.parts) > 0 {
		top := p.parts[len(p.parts)-1]
		top.parts = top.parts[:cp.parts]
		top.layout = top.layout[:cp.layout]
	}
}
