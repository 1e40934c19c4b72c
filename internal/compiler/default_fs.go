// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"path/filepath"

	"gopkg.axion.dev/compiler.go/internal/fs"
)

// EnvPath lists extra source roots, separated like PATH, that are searched
// before the system data directories.
const EnvPath = "AXION_PATH"

// NewDefaultFS searches the AXION_PATH roots followed by the platform's
// shared data directories.
func NewDefaultFS(lookup func(string) (string, bool)) (fs.FileSystem, error) {
	roots := []string{}
	if extra, ok := lookup(EnvPath); ok && extra != "" {
		roots = append(roots, filepath.SplitList(extra)...)
	}
	roots = append(roots, getDefaultRoots(lookup)...)
	return NewRootsFS(roots...)
}

// NewRootsFS builds a FileSystem that tries each root directory in order.
func NewRootsFS(roots ...string) (fs.FileSystemMulti, error) {
	f := make(fs.FileSystemMulti, 0, len(roots))
	for _, root := range roots {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			return nil, errAbs
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			return nil, err
		}
		f = append(f, rf)
	}
	return f, nil
}
