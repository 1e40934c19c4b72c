package compiler

import (
	"context"
	"errors"
	iofs "io/fs"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"gopkg.axion.dev/compiler.go/internal/ast"
	"gopkg.axion.dev/compiler.go/internal/config"
	"gopkg.axion.dev/compiler.go/internal/exc"
	"gopkg.axion.dev/compiler.go/internal/fs"
	"gopkg.axion.dev/compiler.go/internal/source"
	"gopkg.axion.dev/compiler.go/internal/token"
	"gopkg.axion.dev/compiler.go/internal/unit"
)

func newCompiler(t *testing.T, files fstest.MapFS, opts ...Option) (Compiler, exc.Reporter) {
	t.Helper()
	local, err := fs.NewFileSystemLocal("/", fs.WithOptionFSFactory(func(string) iofs.FS { return files }))
	require.NoError(t, err)
	reporter := exc.NewReporter(nil)
	opts = append([]Option{
		OptionWithFS(local),
		OptionWithExcReporter(reporter),
		OptionWithLookupEnv(func(string) (string, bool) { return "", false }),
	}, opts...)
	c, err := New(opts...)
	require.NoError(t, err)
	return c, reporter
}

func codes(err error) []string {
	var me MultiException
	if !errors.As(err, &me) {
		return nil
	}
	out := []string{}
	for _, e := range me {
		out = append(out, e.Code())
	}
	return out
}

func TestCompileStages(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"src/main.ax": {Data: []byte("x |> f\n(a, b) = g()\n")},
	}
	testCases := []struct {
		stage    Stage
		expected string
	}{
		{stage: StageParse, expected: "x |> f\n(a, b) = g()\n"},
		{stage: StageRewrite, expected: "f(x)\nlet unwrapped0 = g()\na = unwrapped0.a\nb = unwrapped0.b\n"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.stage.String(), func(t *testing.T) {
			t.Parallel()
			c, _ := newCompiler(t, files)
			out, err := c.Compile(context.Background(), &Request{Files: []string{"src/main.ax"}, Stage: testCase.stage})
			require.NoError(t, err)
			require.Len(t, out.Units, 1)
			require.Equal(t, "/src/main.ax", out.Units[0].Path)
			require.Equal(t, testCase.expected, ast.Print(out.Units[0].Tree))
		})
	}

	c, _ := newCompiler(t, files)
	out, err := c.Compile(context.Background(), &Request{Files: []string{"/src/main.ax"}, Stage: StageLex})
	require.NoError(t, err)
	require.Len(t, out.Units, 1)
	require.Nil(t, out.Units[0].Tree)
	require.Equal(t, token.KindIdentifier, out.Units[0].Tokens[0].Kind)
}

func TestCompileManyUnits(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"src/a.ax": {Data: []byte("let a = 1\n")},
		"src/b.ax": {Data: []byte("let b = 2\n")},
		"src/c.ax": {Data: []byte("let c = 3\n")},
		"src/d.ax": {Data: []byte("let d = 4\n")},
	}
	c, _ := newCompiler(t, files, OptionWithMaxConcurrency(2))
	out, err := c.Compile(context.Background(), &Request{
		Files: []string{"src", "src/b.ax"},
		Stage: StageRewrite,
	})
	require.NoError(t, err)
	paths := []string{}
	for _, u := range out.Units {
		paths = append(paths, u.Path)
	}
	require.Equal(t, []string{"/src/a.ax", "/src/b.ax", "/src/c.ax", "/src/d.ax"}, paths)
	require.Equal(t, "let c = 3\n", ast.Print(out.Units[2].Tree))
}

func TestCompileDiagnostics(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"bad.ax":  {Data: []byte("x = 08\ny = \"\\U00110000\"\nz = 1.5\n")},
		"good.ax": {Data: []byte("let ok = 1\n")},
		"syn.ax":  {Data: []byte("x = (1, 2\n")},
	}
	c, reporter := newCompiler(t, files)
	out, err := c.Compile(context.Background(), &Request{
		Files: []string{"bad.ax", "good.ax"},
		Stage: StageRewrite,
	})
	require.Error(t, err)
	require.Equal(t, []string{exc.CodeInvalidLiteral, exc.CodeInvalidLiteral}, codes(err))
	require.Empty(t, err.(MultiException).Fatal())
	require.Len(t, out.Units, 2)
	require.Len(t, out.Units[0].Diagnostics(), 2)
	require.Empty(t, out.Units[1].Diagnostics())
	require.Len(t, reporter.Reported(), 2)

	c, _ = newCompiler(t, files)
	out, err = c.Compile(context.Background(), &Request{Files: []string{"syn.ax"}, Stage: StageParse})
	require.Error(t, err)
	require.NotEmpty(t, codes(err))
	require.NotNil(t, out.Units[0].Tree)
}

func TestCompileMissingFile(t *testing.T) {
	t.Parallel()

	c, _ := newCompiler(t, fstest.MapFS{"a.ax": {Data: []byte("a\n")}})
	_, err := c.Compile(context.Background(), &Request{Files: []string{"missing.ax"}})
	require.Error(t, err)
	require.Equal(t, []string{exc.CodeFileNotFound}, codes(err))
}

func TestCompileConfig(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"f.ax": {Data: []byte("fn f() -> ():\n\tpass\n")},
	}
	cfg := config.Default()
	cfg.Rewrite.EmptyTuple = false
	cfg.Compiler.MaxConcurrency = 1
	c, _ := newCompiler(t, files, OptionWithConfig(cfg))
	out, err := c.Compile(context.Background(), &Request{Files: []string{"f.ax"}, Stage: StageRewrite})
	require.NoError(t, err)
	require.Equal(t, "fn f() -> ():\n    pass\n", ast.Print(out.Units[0].Tree))

	c, _ = newCompiler(t, files)
	out, err = c.Compile(context.Background(), &Request{Files: []string{"f.ax"}, Stage: StageRewrite})
	require.NoError(t, err)
	require.Equal(t, "fn f() -> Unit:\n    pass\n", ast.Print(out.Units[0].Tree))

	bad := config.Default()
	bad.Output.DumpFormat = "xml"
	_, err = New(OptionWithConfig(bad))
	require.Error(t, err)
	_, err = New(OptionWithMaxConcurrency(-1))
	require.Error(t, err)
}

func TestCompileCancelled(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{"a.ax": {Data: []byte("let a = 1\n")}}
	c, reporter := newCompiler(t, files)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Compile(ctx, &Request{Files: []string{"a.ax"}, Stage: StageRewrite})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, exc.CodeCancelled, reporter.Reported()[len(reporter.Reported())-1].Code())
}

func TestSubCompilerInternalError(t *testing.T) {
	t.Parallel()

	// A loop with a nobreak clause used as a call argument has no statement
	// list to lower into.
	loop := &ast.WhileExpr{
		Cond:    ast.NewName(source.Span{}, "a"),
		Body:    ast.NewScope(source.Span{}, &ast.BreakExpr{}),
		NoBreak: ast.NewScope(source.Span{}),
	}
	call := &ast.FuncCallExpr{Target: ast.NewName(source.Span{}, "f"), Args: []*ast.FuncCallArg{ast.NewArg(loop)}}
	u := unit.New("/m.ax", "", exc.NewReporter(nil), source.DefaultOptions())
	u.Tree = ast.NewAst(u.Path, source.Span{})
	u.Tree.Items = []ast.Node{call}
	ast.Link(u.Tree)

	sc := &SubCompilerAxion{EmptyTuple: true}
	require.NoError(t, sc.lower(context.Background(), u, slog.New(slog.DiscardHandler)))
	require.Nil(t, u.Tree)
	require.Len(t, u.Diagnostics(), 1)
	require.Equal(t, exc.CodeInternal, u.Diagnostics()[0].Code())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	u = unit.New("/n.ax", "", exc.NewReporter(nil), source.DefaultOptions())
	u.Tree = ast.NewAst(u.Path, source.Span{})
	u.Tree.Items = []ast.Node{ast.NewName(source.Span{}, "x")}
	ast.Link(u.Tree)
	require.ErrorIs(t, sc.lower(ctx, u, slog.New(slog.DiscardHandler)), context.Canceled)
}

func TestTargetURI(t *testing.T) {
	t.Parallel()

	c := &compiler{}
	ctx := context.Background()
	require.Equal(t, "/a/b.ax", c.targetURI(ctx, "a/b.ax"))
	require.Equal(t, "/a/b.ax", c.targetURI(ctx, "file:///a/b.ax"))
	require.Equal(t, "https://example.com/a.ax", c.targetURI(ctx, "https://example.com/a.ax"))
}

func TestDefaultRoots(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvPath:         "/opt/axion",
		"XDG_DATA_DIRS": "/data",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	f, err := NewDefaultFS(lookup)
	require.NoError(t, err)
	require.IsType(t, fs.FileSystemMulti{}, f)
	require.Len(t, f.(fs.FileSystemMulti), 1+len(getDefaultRoots(lookup)))
}
