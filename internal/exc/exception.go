// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"fmt"

	"gopkg.axion.dev/compiler.go/internal/source"
)

type Exception interface {
	error
	Code() string
	Message() string
	Location() Location
}

// Location is the place a diagnostic refers to: a unit URI and a span in it.
type Location struct {
	source.Span
	URI string
}

// String renders the location as uri:line:column with one based numbers.
func (l Location) String() string {
	if l.URI == "" {
		return l.Start.String()
	}
	return l.URI + ":" + l.Start.String()
}

// Less orders locations by URI and then by start position.
func (l Location) Less(o Location) bool {
	if l.URI != o.URI {
		return l.URI < o.URI
	}
	return l.Start.Less(o.Start)
}

type exc struct {
	code     string
	message  string
	location Location
}

func (e *exc) Error() string {
	return fmt.Sprintf("%s -- %s: %s", e.location, e.code, e.message)
}

func (e *exc) Code() string {
	return e.code
}

func (e *exc) Message() string {
	return e.message
}

func (e *exc) Location() Location {
	return e.location
}

type excUnwrap struct {
	Exception
	cause error
}

func (e *excUnwrap) Unwrap() error {
	return e.cause
}

func New(location Location, code string, message string) Exception {
	return &exc{
		location: location,
		message:  message,
		code:     code,
	}
}

func Wrap(location Location, code string, err error) Exception {
	if err == nil {
		return nil
	}
	if e, ok := err.(Exception); ok {
		return &excUnwrap{
			Exception: New(location, code, e.Message()),
			cause:     e,
		}
	}
	return &excUnwrap{
		cause:     err,
		Exception: New(location, code, err.Error()),
	}
}

func WrapUnknown(location Location, err error) Exception {
	return Wrap(location, CodeUnknownFatal, err)
}
