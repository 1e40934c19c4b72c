package compiler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dustin/go-humanize"

	"gopkg.axion.dev/compiler.go/internal/ast"
	"gopkg.axion.dev/compiler.go/internal/exc"
	"gopkg.axion.dev/compiler.go/internal/fs"
	"gopkg.axion.dev/compiler.go/internal/lexer"
	"gopkg.axion.dev/compiler.go/internal/literal"
	"gopkg.axion.dev/compiler.go/internal/parser"
	"gopkg.axion.dev/compiler.go/internal/rewrite"
	"gopkg.axion.dev/compiler.go/internal/source"
	"gopkg.axion.dev/compiler.go/internal/unit"
)

type SubCompilerAxion struct {
	Options    source.Options
	EmptyTuple bool
	Logger     *slog.Logger
	// Macros are visible to every unit in addition to the ones each unit
	// defines for itself.
	Macros []*ast.MacroDef
}

func (self *SubCompilerAxion) CompileFile(ctx context.Context, r exc.Reporter, file fs.File, stage Stage) (*unit.Unit, error) {
	logger := self.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	code, err := fs.ReadAll(ctx, file)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var e exc.Exception
		if !errors.As(err, &e) {
			e = exc.WrapUnknown(exc.Location{URI: file.Path(ctx)}, err)
		}
		return nil, r.Report(e)
	}
	u := unit.New(file.Path(ctx), code, r, self.Options)
	logger = logger.With(slog.String("unit", u.ID.String()), slog.String("path", u.Path))
	logger.Debug("compiling unit", slog.String("size", humanize.Bytes(uint64(len(code)))), slog.String("stage", stage.String()))

	lexer.New(u, lexer.WithLogger(logger)).Scan()
	if stage == StageLex {
		logger.Debug("unit finished", slog.Int("tokens", len(u.Tokens)))
		return u, nil
	}

	if _, err := parser.New(u, parser.WithLogger(logger), parser.WithMacros(self.Macros...)).Parse(ctx); err != nil {
		return nil, err
	}
	checkLiterals(u)
	if stage == StageParse {
		logger.Debug("unit finished", slog.Int("tokens", len(u.Tokens)), slog.Int("nodes", countNodes(u.Tree)))
		return u, nil
	}

	if err := self.lower(ctx, u, logger); err != nil {
		return nil, err
	}
	if u.Tree != nil {
		logger.Debug("unit finished", slog.Int("tokens", len(u.Tokens)), slog.Int("nodes", countNodes(u.Tree)))
	}
	return u, nil
}

// lower runs the rewriter over the unit's tree. A failure to lower the tree
// is reported against the unit and clears its tree so that the remaining
// units carry on. Only cancellation is returned.
func (self *SubCompilerAxion) lower(ctx context.Context, u *unit.Unit, logger *slog.Logger) error {
	err := rewrite.Rewrite(ctx, u.Tree, rewrite.WithEmptyTupleRule(self.EmptyTuple), rewrite.WithLogger(logger))
	if err == nil {
		err = rewrite.Verify(u.Tree, rewrite.WithEmptyTupleRule(self.EmptyTuple))
	}
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var span source.Span
	if u.Tree != nil {
		span = u.Tree.Span()
	}
	u.Blame(exc.CodeInternal, span, err.Error())
	logger.Error("rewrite failed", slog.Any("error", err))
	u.Tree = nil
	return nil
}

// checkLiterals decodes every constant in the tree and reports the ones
// that are malformed. Unterminated literals were already reported by the
// lexer.
func checkLiterals(u *unit.Unit) {
	ast.Walk(u.Tree, func(n ast.Node) bool {
		c, ok := n.(*ast.ConstantExpr)
		if !ok || c.Token == nil || c.Token.Unterminated {
			return true
		}
		if _, err := literal.Decode(c.Token); err != nil {
			u.Blame(exc.CodeInvalidLiteral, c.Token.Span, err.Error())
		}
		return true
	})
}

func countNodes(n ast.Node) int {
	count := 0
	ast.Walk(n, func(ast.Node) bool {
		count = count + 1
		return true
	})
	return count
}
