// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package unit models one source file as it moves through the front end.
package unit

import (
	"github.com/google/uuid"

	"gopkg.axion.dev/compiler.go/internal/ast"
	"gopkg.axion.dev/compiler.go/internal/exc"
	"gopkg.axion.dev/compiler.go/internal/source"
	"gopkg.axion.dev/compiler.go/internal/token"
)

// Unit owns the text of one source file together with everything derived
// from it. The lexer appends to Tokens, the parser fills Tree and every stage
// reports diagnostics through Reporter.
type Unit struct {
	ID       uuid.UUID
	Path     string
	Code     string
	Options  source.Options
	Reporter exc.Reporter
	Tokens   []*token.Token
	Tree     *ast.Ast
}

func New(path string, code string, reporter exc.Reporter, options source.Options) *Unit {
	if reporter == nil {
		reporter = exc.NewReporter(nil)
	}
	if options.TabWidth <= 0 {
		options.TabWidth = source.DefaultOptions().TabWidth
	}
	return &Unit{
		ID:       uuid.New(),
		Path:     path,
		Code:     code,
		Options:  options,
		Reporter: reporter,
	}
}

// Feed appends more text to the unit. A following lexer scan continues from
// where the previous one stopped.
func (u *Unit) Feed(more string) {
	u.Code = u.Code + more
}

// Blame reports a diagnostic at the given span. It returns a non-nil value
// only when the reporter considers the code fatal.
func (u *Unit) Blame(code string, span source.Span, message string) exc.Exception {
	return u.Reporter.Report(u.Exception(code, span, message))
}

func (u *Unit) Exception(code string, span source.Span, message string) exc.Exception {
	return exc.New(exc.Location{URI: u.Path, Span: span}, code, message)
}

// Diagnostics returns the reported records that belong to this unit.
func (u *Unit) Diagnostics() []exc.Exception {
	all := u.Reporter.Reported()
	out := make([]exc.Exception, 0, len(all))
	for _, e := range all {
		if e.Location().URI == u.Path {
			out = append(out, e)
		}
	}
	return out
}
