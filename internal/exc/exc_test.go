package exc

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.axion.dev/compiler.go/internal/source"
)

func TestReporterFatality(t *testing.T) {
	t.Parallel()

	r := NewReporter([]string{CodeFileNotFound})
	loc := Location{URI: "/a.ax", Span: source.Span{Start: source.Position{Line: 1, Column: 2}}}

	require.Nil(t, r.Report(New(loc, CodeUnexpectedToken, "unexpected")))
	require.Nil(t, r.Report(New(loc, CodeFileNotFound, "missing")))
	fatal := r.Report(New(loc, CodeInternal, "boom"))
	require.NotNil(t, fatal)
	require.Equal(t, "/a.ax:2:3 -- AX0900: boom", fatal.Error())
	require.Len(t, r.Reported(), 3)
	require.Equal(t, CodeUnexpectedToken, r.Reported()[0].Code())
}

func TestReporterConcurrent(t *testing.T) {
	t.Parallel()

	r := NewReporter(nil)
	wg := sync.WaitGroup{}
	for x := 0; x < 16; x = x + 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Report(New(Location{}, CodeInvalidCharacter, "bad"))
		}()
	}
	wg.Wait()
	require.Len(t, r.Reported(), 16)
}

func TestWrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk on fire")
	e := Wrap(Location{URI: "x"}, CodePermissionDenied, cause)
	require.True(t, errors.Is(e, cause))
	require.Equal(t, CodePermissionDenied, e.Code())
	require.Nil(t, Wrap(Location{}, CodeInternal, nil))
	require.True(t, IsFatal(CodeInternal))
	require.False(t, IsFatal(CodeMismatchedBrace))
}

func TestSorted(t *testing.T) {
	t.Parallel()

	at := func(uri string, line uint32, column uint32) Location {
		return Location{URI: uri, Span: source.Span{Start: source.Position{Line: line, Column: column}}}
	}
	es := []Exception{
		New(at("/b.ax", 0, 0), CodeUnexpectedToken, "b"),
		New(at("/a.ax", 3, 1), CodeUnexpectedToken, "a3"),
		New(at("/a.ax", 0, 4), CodeExpectedToken, "a0-first"),
		New(at("/a.ax", 0, 4), CodeUnexpectedToken, "a0-second"),
	}
	sorted := Sorted(es)
	messages := []string{}
	for _, e := range sorted {
		messages = append(messages, e.Message())
	}
	require.Equal(t, []string{"a0-first", "a0-second", "a3", "b"}, messages)
	require.Equal(t, "b", es[0].Message())
	require.Equal(t, "/a.ax:4:2", sorted[2].Location().String())
	require.Equal(t, "1:1", Location{}.String())

	require.False(t, HasFatal(es))
	require.True(t, HasFatal(append(es, New(Location{}, CodeInternal, "x"))))
}
