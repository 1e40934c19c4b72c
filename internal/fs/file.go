// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"gopkg.axion.dev/compiler.go/internal/exc"
)

type FileKind uint8

const (
	FileKindNone FileKind = iota
	FileKindAxion
)

func (k FileKind) String() string {
	switch k {
	case FileKindAxion:
		return "axion"
	}
	return "none"
}

// File is one source input. Body may be called more than once and returns a
// fresh reader each time.
type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

// FileBody reads file content in chunks. The final chunk is returned along
// with an exception carrying exc.CodeEOF.
type FileBody interface {
	Read(ctx context.Context, size int32) ([]byte, error)
	Close(ctx context.Context) error
}

// FileSystem resolves URIs to files.
type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
	Write(ctx context.Context, uri string, content string) error
}

// NewFileString wraps static string content in File.
func NewFileString(path string, content string, kind FileKind) File {
	return NewFileFN(path, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}, kind)
}

type fileIOFunc struct {
	path string
	kind FileKind
	body func() (io.ReadCloser, error)
}

// NewFileFN is intended to wrap actual file based content in the File
// interface. The given body function is used each time there is a call to the
// File.Body method so it must return a new io.ReadCloser handle.
func NewFileFN(path string, body func() (io.ReadCloser, error), kind FileKind) File {
	return &fileIOFunc{
		path: path,
		kind: kind,
		body: body,
	}
}

func (f *fileIOFunc) Path(ctx context.Context) string {
	return f.path
}
func (f *fileIOFunc) Kind(ctx context.Context) FileKind {
	return f.kind
}
func (f *fileIOFunc) Body(ctx context.Context) (FileBody, error) {
	rc, err := f.body()
	if err != nil {
		return nil, fsErr(f.path, err)
	}
	rcb := bufio.NewReader(rc)
	rcbc := &bufioReaderCloser{
		Reader: rcb,
		Closer: rc,
	}
	return bodyFromIO(rcbc), nil
}

type bufioReaderCloser struct {
	*bufio.Reader
	io.Closer
}

const readChunk = 32 * 1024

// ReadAll drains the body of a file into a string.
func ReadAll(ctx context.Context, f File) (string, error) {
	body, err := f.Body(ctx)
	if err != nil {
		return "", err
	}
	defer body.Close(ctx)
	var b strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		chunk, err := body.Read(ctx, readChunk)
		b.Write(chunk)
		if err == nil {
			continue
		}
		var e exc.Exception
		if errors.As(err, &e) && e.Code() == exc.CodeEOF {
			return b.String(), nil
		}
		return "", exc.Wrap(exc.Location{URI: f.Path(ctx)}, exc.CodeUnknownFatal, err)
	}
}
