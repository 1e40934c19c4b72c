package compiler

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"gopkg.axion.dev/compiler.go/internal/config"
	"gopkg.axion.dev/compiler.go/internal/exc"
	"gopkg.axion.dev/compiler.go/internal/fs"
	"gopkg.axion.dev/compiler.go/internal/unit"
)

// Stage selects how far each unit is taken through the front end.
type Stage uint8

const (
	StageLex Stage = iota
	StageParse
	StageRewrite
)

var stageNames = map[Stage]string{
	StageLex:     "lex",
	StageParse:   "parse",
	StageRewrite: "rewrite",
}

func (s Stage) String() string {
	return stageNames[s]
}

type Request struct {
	// Files are paths or URIs resolved through the compiler's FileSystem.
	// Directories expand to the sources they contain.
	Files []string
	Stage Stage
}

type Response struct {
	// Units holds one entry per distinct source file in the order the files
	// were requested. A unit whose rewrite failed has a nil Tree.
	Units []*unit.Unit
}

type Compiler interface {
	Compile(ctx context.Context, req *Request) (*Response, error)
}

type Option func(c *compiler) error

func OptionWithFS(fs fs.FileSystem) Option {
	return func(c *compiler) error {
		c.FS = fs
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(c *compiler) error {
		c.LookupENV = lookupEnv
		return nil
	}
}

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(c *compiler) error {
		c.Reporter = reporter
		return nil
	}
}

func OptionWithLogger(logger *slog.Logger) Option {
	return func(c *compiler) error {
		c.Logger = logger
		return nil
	}
}

func OptionWithMaxConcurrency(n int) Option {
	return func(c *compiler) error {
		if n < 0 {
			return errors.New("max concurrency must not be negative")
		}
		c.MaxConcurrency = n
		return nil
	}
}

// OptionWithConfig applies settings loaded from a config file. Options given
// after it override the file.
func OptionWithConfig(cfg config.Config) Option {
	return func(c *compiler) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.Config = cfg
		c.MaxConcurrency = cfg.Compiler.MaxConcurrency
		return nil
	}
}

func New(opts ...Option) (Compiler, error) {
	c := &compiler{Config: config.Default()}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.LookupENV == nil {
		c.LookupENV = os.LookupEnv
	}
	if c.FS == nil {
		dfs, err := NewDefaultFS(c.LookupENV)
		if err != nil {
			return nil, err
		}
		c.FS = dfs
	}
	if c.MaxConcurrency == 0 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		c.MaxConcurrency = max
	}
	if c.Reporter == nil {
		c.Reporter = exc.NewReporter(nil)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if c.SubCompilers == nil {
		c.SubCompilers = DefaultSubCompilers(c.Config, c.Logger)
	}
	return c, nil
}

type compiler struct {
	LookupENV      func(string) (string, bool)
	FS             fs.FileSystem
	MaxConcurrency int
	Reporter       exc.Reporter
	Logger         *slog.Logger
	Config         config.Config
	SubCompilers   map[fs.FileKind]SubCompiler
}

func (self *compiler) Compile(ctx context.Context, req *Request) (*Response, error) {
	targets := make([]string, 0, len(req.Files))
	for _, f := range req.Files {
		targets = append(targets, self.targetURI(ctx, f))
	}
	files := make([]fs.File, 0, len(targets))
	loaded := make(map[string]bool)
	for _, target := range targets {
		in, err := self.FS.Open(ctx, target)
		if err != nil {
			var e exc.Exception
			if !errors.As(err, &e) {
				e = exc.WrapUnknown(exc.Location{URI: target}, err)
			}
			if fatal := self.Reporter.Report(e); fatal != nil {
				return nil, MultiException(self.Reporter.Reported())
			}
			continue
		}
		for _, inf := range in {
			if inf.Kind(ctx) == fs.FileKindNone || loaded[inf.Path(ctx)] {
				continue
			}
			loaded[inf.Path(ctx)] = true
			files = append(files, inf)
		}
	}

	units := make([]*unit.Unit, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(self.MaxConcurrency)
	for x, file := range files {
		g.Go(func() error {
			u, err := self.compileFile(gctx, file, req.Stage)
			units[x] = u
			return err
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			self.Reporter.Report(exc.Wrap(exc.Location{}, exc.CodeCancelled, ctxErr))
			return nil, ctxErr
		}
		return nil, err
	}

	out := &Response{Units: make([]*unit.Unit, 0, len(units))}
	for _, u := range units {
		if u != nil {
			out.Units = append(out.Units, u)
		}
	}
	caught := self.Reporter.Reported()
	if len(caught) > 0 {
		return out, MultiException(caught)
	}
	return out, nil
}

func (self *compiler) compileFile(ctx context.Context, file fs.File, stage Stage) (*unit.Unit, error) {
	sc := self.SubCompilers[file.Kind(ctx)]
	if sc == nil {
		e := exc.New(exc.Location{URI: file.Path(ctx)}, exc.CodeUnsupportedFileFormat, "Unsupported file format")
		return nil, self.Reporter.Report(e)
	}
	return sc.CompileFile(ctx, self.Reporter, file, stage)
}

func (self *compiler) targetURI(ctx context.Context, target string) string {
	// Targets may be any valid URI or file path. File paths and file URIs
	// are converted to an absolute form to work with the local FileSystem.
	// All non-file URIs are left as-is for other implementations.
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return target
	}
	if u.Scheme == "file" {
		target = u.Path
	}
	if !filepath.IsAbs(target) {
		return filepath.Join("/", target)
	}
	return target
}

type MultiException []exc.Exception

func (self MultiException) Error() string {
	if len(self) == 0 {
		return "no exceptions"
	}
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}

// Fatal returns the exceptions whose codes stop processing.
func (self MultiException) Fatal() MultiException {
	var out MultiException
	for _, e := range self {
		if exc.IsFatal(e.Code()) {
			out = append(out, e)
		}
	}
	return out
}
