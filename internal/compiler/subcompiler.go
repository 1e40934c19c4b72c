package compiler

import (
	"context"
	"log/slog"

	"gopkg.axion.dev/compiler.go/internal/config"
	"gopkg.axion.dev/compiler.go/internal/exc"
	"gopkg.axion.dev/compiler.go/internal/fs"
	"gopkg.axion.dev/compiler.go/internal/unit"
)

// SubCompiler takes one file of a given kind through the requested stages.
// Diagnostics go to the reporter. The returned error is non-nil only when
// processing must stop.
type SubCompiler interface {
	CompileFile(ctx context.Context, r exc.Reporter, file fs.File, stage Stage) (*unit.Unit, error)
}

func DefaultSubCompilers(cfg config.Config, logger *slog.Logger) map[fs.FileKind]SubCompiler {
	return map[fs.FileKind]SubCompiler{
		fs.FileKindAxion: &SubCompilerAxion{
			Options:    cfg.SourceOptions(),
			EmptyTuple: cfg.Rewrite.EmptyTuple,
			Logger:     logger,
		},
	}
}
