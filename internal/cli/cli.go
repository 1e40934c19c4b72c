// Package cli wires the front end into the axionc command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"gopkg.axion.dev/compiler.go/internal/ast"
	"gopkg.axion.dev/compiler.go/internal/compiler"
	"gopkg.axion.dev/compiler.go/internal/config"
	"gopkg.axion.dev/compiler.go/internal/dump"
	"gopkg.axion.dev/compiler.go/internal/exc"
	"gopkg.axion.dev/compiler.go/internal/fs"
	"gopkg.axion.dev/compiler.go/internal/unit"
)

// ErrDiagnostics is returned when the compiled units produced diagnostics.
// The diagnostics themselves have already been printed.
var ErrDiagnostics = errors.New("compilation reported diagnostics")

type options struct {
	Config  string
	Roots   []string
	Jobs    int
	Format  string
	Output  string
	Dump    bool
	Verbose bool
	NoColor bool
}

// Env is the process environment the command runs in.
type Env struct {
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv func(string) (string, bool)
	// Color forces coloured diagnostics on or off. When nil colour is used
	// if stderr is a terminal.
	Color *bool
}

func DefaultEnv() Env {
	return Env{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		LookupEnv: os.LookupEnv,
	}
}

// New builds the axionc root command.
func New(env Env) *cobra.Command {
	if env.LookupEnv == nil {
		env.LookupEnv = os.LookupEnv
	}
	if env.Stdout == nil {
		env.Stdout = io.Discard
	}
	if env.Stderr == nil {
		env.Stderr = io.Discard
	}
	op := &options{}
	root := &cobra.Command{
		Use:           "axionc",
		Short:         "Axion source to source compiler front end",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addGlobalFlags(root.PersistentFlags(), op)

	lex := &cobra.Command{
		Use:   "lex [files...]",
		Short: "Print the token stream of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, op, args, compiler.StageLex)
		},
	}
	addFormatFlag(lex.Flags(), op)

	parse := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Print the syntax tree of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, op, args, compiler.StageParse)
		},
	}
	addFormatFlag(parse.Flags(), op)

	build := &cobra.Command{
		Use:   "build [files...]",
		Short: "Desugar each file and write the resulting source",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, op, args, compiler.StageRewrite)
		},
	}
	addFormatFlag(build.Flags(), op)
	build.Flags().StringVarP(&op.Output, "output", "o", "-", "Output directory or - for STDOUT.")
	build.Flags().BoolVar(&op.Dump, "dump", false, "Print the desugared tree instead of source.")

	root.AddCommand(lex, parse, build)
	return root
}

func addGlobalFlags(flags *pflag.FlagSet, op *options) {
	flags.StringVar(&op.Config, "config", "", "Settings file (default: $"+config.EnvPath+" or ./"+config.FileName+").")
	flags.StringSliceVar(&op.Roots, "root", []string{"."}, "Root search paths for sources.")
	flags.IntVarP(&op.Jobs, "jobs", "j", 0, "Maximum number of files processed at once.")
	flags.BoolVarP(&op.Verbose, "verbose", "v", false, "Log each stage to stderr.")
	flags.BoolVar(&op.NoColor, "no-color", false, "Disable coloured diagnostics.")
}

func addFormatFlag(flags *pflag.FlagSet, op *options) {
	flags.StringVarP(&op.Format, "format", "f", "", "Dump format, yaml or json.")
}

// settings merges the config file with the flags given on the command line.
func settings(flags *pflag.FlagSet, env Env, op *options) (config.Config, error) {
	cfg, err := config.Load(op.Config, env.LookupEnv)
	if err != nil {
		return config.Config{}, err
	}
	if flags.Changed("jobs") {
		cfg.Compiler.MaxConcurrency = op.Jobs
	}
	if flags.Changed("format") {
		cfg.Output.DumpFormat = op.Format
	}
	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, env Env, op *options, args []string, stage compiler.Stage) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := settings(cmd.Flags(), env, op)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if op.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: level}))

	sources, err := compiler.NewRootsFS(op.Roots...)
	if err != nil {
		return err
	}
	shared, err := compiler.NewDefaultFS(env.LookupEnv)
	if err != nil {
		return err
	}

	c, err := compiler.New(
		compiler.OptionWithConfig(cfg),
		compiler.OptionWithLookupEnv(env.LookupEnv),
		compiler.OptionWithFS(append(sources, shared)),
		compiler.OptionWithLogger(logger),
	)
	if err != nil {
		return err
	}

	out, compileErr := c.Compile(ctx, &compiler.Request{Files: args, Stage: stage})
	var me compiler.MultiException
	if compileErr != nil && !errors.As(compileErr, &me) {
		return compileErr
	}
	style := newStyles(colorEnabled(env, op))
	printDiagnostics(env.Stderr, style, me)

	if out != nil {
		if err := emit(ctx, env, cfg, op, stage, out.Units); err != nil {
			return err
		}
		printSummary(env.Stderr, style, out.Units, len(me))
	}
	if len(me) > 0 {
		if exc.HasFatal(me) {
			logger.Debug("compilation stopped early", slog.Int("fatal", len(me.Fatal())))
		}
		return ErrDiagnostics
	}
	return nil
}

func emit(ctx context.Context, env Env, cfg config.Config, op *options, stage compiler.Stage, units []*unit.Unit) error {
	if stage == compiler.StageRewrite && !op.Dump {
		return writeSources(ctx, env, op.Output, units)
	}
	for _, u := range units {
		var doc dump.Document
		if stage == compiler.StageLex {
			doc = dump.Tokens(u.Path, u.Tokens)
		} else {
			doc = dump.Tree(u.Path, u.Tree)
		}
		if err := doc.WithDiagnostics(u.Diagnostics()).Encode(env.Stdout, cfg.Output.DumpFormat); err != nil {
			return err
		}
	}
	return nil
}

// writeSources prints each desugared unit. Units are written under the
// output directory at the same relative path they were read from.
func writeSources(ctx context.Context, env Env, output string, units []*unit.Unit) error {
	if output == "-" {
		for _, u := range units {
			if u.Tree == nil {
				continue
			}
			if len(units) > 1 {
				fmt.Fprintf(env.Stdout, "# %s\n", u.Path)
			}
			fmt.Fprint(env.Stdout, ast.Print(u.Tree))
		}
		return nil
	}
	abs, err := filepath.Abs(output)
	if err != nil {
		return err
	}
	dest, err := fs.NewFileSystemLocal(abs)
	if err != nil {
		return err
	}
	for _, u := range units {
		if u.Tree == nil {
			continue
		}
		if err := dest.Write(ctx, u.Path, ast.Print(u.Tree)); err != nil {
			return err
		}
	}
	return nil
}

func printDiagnostics(w io.Writer, style styles, es []exc.Exception) {
	for _, e := range exc.Sorted(es) {
		loc := e.Location()
		where := loc.URI
		if loc.URI != "" {
			where = loc.String()
		}
		severity := style.warning.Render("error")
		if exc.IsFatal(e.Code()) {
			severity = style.fatal.Render("fatal")
		}
		fmt.Fprintf(w, "%s %s %s %s\n", style.location.Render(where), severity, style.code.Render(e.Code()), e.Message())
	}
}

func printSummary(w io.Writer, style styles, units []*unit.Unit, diagnostics int) {
	size := 0
	for _, u := range units {
		size = size + len(u.Code)
	}
	line := fmt.Sprintf("%s %s (%s), %s",
		humanize.Comma(int64(len(units))), plural(len(units), "unit", "units"),
		humanize.Bytes(uint64(size)),
		plural(diagnostics, "1 diagnostic", humanize.Comma(int64(diagnostics))+" diagnostics"))
	fmt.Fprintln(w, style.summary.Render(line))
}

func plural(n int, one string, many string) string {
	if n == 1 {
		return one
	}
	return many
}
