// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"io"

	"gopkg.axion.dev/compiler.go/internal/exc"
)

func bodyFromIO(v io.ReadCloser) FileBody {
	return &ioFileBody{rc: v}
}

// ioFileBody adapts an io.ReadCloser. The returned chunk is only valid until
// the next call to Read.
type ioFileBody struct {
	rc   io.ReadCloser
	b    []byte
	done bool
}

func (self *ioFileBody) Read(ctx context.Context, size int32) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if self.done {
		return nil, exc.Wrap(exc.Location{}, exc.CodeEOF, io.EOF)
	}
	if len(self.b) < int(size) {
		self.b = make([]byte, size)
	}
	count, err := io.ReadFull(self.rc, self.b[:size])
	switch {
	case err == nil:
		return self.b[:count], nil
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		self.done = true
		return self.b[:count], exc.Wrap(exc.Location{}, exc.CodeEOF, io.EOF)
	}
	return nil, exc.WrapUnknown(exc.Location{}, err)
}

func (self *ioFileBody) Close(ctx context.Context) error {
	return self.rc.Close()
}
