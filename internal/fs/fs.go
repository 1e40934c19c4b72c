// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.axion.dev/compiler.go/internal/exc"
)

const (
	fileExt = ".ax" // Axion source
)

var knownExts = map[string]FileKind{
	fileExt: FileKindAxion,
}

// KindOf returns the kind of file implied by the extension of a path.
func KindOf(path string) FileKind {
	return knownExts[filepath.Ext(path)]
}

var _ FileSystem = FileSystemMulti{}

// FileSystemMulti is an ordered set of FileSystem implementations that are
// tried in order. Note that this type does not implement write operations.
// Those must be performed on individual backends.
type FileSystemMulti []FileSystem

func (r FileSystemMulti) Open(ctx context.Context, uri string) ([]File, error) {
	for _, fs := range r {
		files, err := fs.Open(ctx, uri)
		if err != nil {
			continue
		}
		return files, nil
	}
	return nil, exc.New(exc.Location{URI: uri}, exc.CodeFileNotFound, fmt.Sprintf("could not open %s from any file system", uri))
}

func (r FileSystemMulti) Write(ctx context.Context, uri string, content string) error {
	return exc.New(exc.Location{URI: uri}, exc.CodeUnsupportedFileSystemOperation, "cannot write to a composite file system")
}

// FileFilter is a filter function type used to select which files to open when
// the path being opened is a directory. Implementations should return true if
// the file should be opened, false otherwise.
type FileFilter func(ctx context.Context, fname string) bool

type FileSystemLocalOption func(*fileSystemLocal)

// WithOptionFSFactory installs a custom factory function used to generate the
// underlying file system handle. The default value is os.DirFS. The string
// value provided to the factory function is the root directory of the file
// system. All paths given to open are considered relative to this root.
func WithOptionFSFactory(v func(root string) fs.FS) FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.fsFactory = v
	}
}

// WithOptionFileFilter installs a custom filter function used to select files
// when a target is a directory. The default value accepts Axion sources.
func WithOptionFileFilter(v FileFilter) FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.fileFilter = v
	}
}

// WithOptionRecursive makes directory targets include the sources of every
// nested directory.
func WithOptionRecursive(v bool) FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.recursive = v
	}
}

type fileSystemLocal struct {
	root       string
	fsFactory  func(string) fs.FS
	fileFilter FileFilter
	recursive  bool
}

// NewFileSystemLocal creates a new FileSystem that uses the local file system.
func NewFileSystemLocal(root string, options ...FileSystemLocalOption) (FileSystem, error) {
	absroot, err := filepath.Abs(root)
	if err != nil {
		return nil, exc.WrapUnknown(exc.Location{URI: root}, err)
	}
	result := &fileSystemLocal{
		root:      absroot,
		fsFactory: os.DirFS,
		fileFilter: func(ctx context.Context, fname string) bool {
			return KindOf(fname) != FileKindNone
		},
	}
	for _, option := range options {
		option(result)
	}
	return result, nil
}

func (r *fileSystemLocal) Open(ctx context.Context, uri string) ([]File, error) {
	path := uri
	u, err := url.Parse(uri)
	if err == nil {
		path = u.Path
	}
	path = filepath.ToSlash(filepath.Join("/", path))

	dir := r.fsFactory(r.root)
	// fs.FS requires an un-rooted path and uses '.' for the root itself.
	p := strings.TrimPrefix(path, "/")
	if p == "" {
		p = "."
	}
	stat, err := fs.Stat(dir, p)
	if err != nil {
		return nil, fsErr(p, err)
	}
	if !stat.IsDir() {
		f := NewFileFN(path, func() (io.ReadCloser, error) {
			return dir.Open(p)
		}, KindOf(p))
		return []File{f}, nil
	}
	files := []File{}
	err = fs.WalkDir(dir, p, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name != p && !r.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if !r.fileFilter(ctx, d.Name()) {
			return nil
		}
		name = filepath.ToSlash(name)
		files = append(files, NewFileFN("/"+name, func() (io.ReadCloser, error) {
			return dir.Open(name)
		}, KindOf(name)))
		return nil
	})
	if err != nil {
		return nil, fsErr(p, err)
	}
	if len(files) < 1 {
		return nil, exc.New(exc.Location{URI: path}, exc.CodeFileNotFound, fmt.Sprintf("found directory %s but it has no sources", path))
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path(ctx) < files[j].Path(ctx)
	})
	return files, nil
}

func (r *fileSystemLocal) Write(ctx context.Context, uri string, content string) error {
	path := uri
	u, err := url.Parse(uri)
	if err == nil {
		path = u.Path
	}
	path = filepath.Join(r.root, "/", path)
	p := filepath.Clean(path)

	d := filepath.Dir(p)
	if err = os.MkdirAll(d, os.ModeDir|0o755); err != nil {
		return fsErr(d, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return fsErr(p, err)
	}
	return nil
}

func fsErr(path string, err error) error {
	var e exc.Exception
	if errors.As(err, &e) {
		return e
	}
	if errT, ok := err.(*fs.PathError); ok {
		path = errT.Path
	}
	loc := exc.Location{URI: path}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return exc.Wrap(loc, exc.CodeFileNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return exc.Wrap(loc, exc.CodePermissionDenied, err)
	}
	return exc.WrapUnknown(loc, err)
}
