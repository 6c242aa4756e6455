// Copyright (c) 2024 aerth
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

// ddi package exposes the Solaris DDI entry points in their original shape:
// results and end pointers are written through out parameters, and the
// return value is an errno (0 on success).
package ddi

import (
	"errors"
	"syscall"

	"github.com/aerth/spl/strtox"
	"golang.org/x/sys/unix"
)

// Status values returned by the Strto* functions.
const (
	OK     = 0
	EINVAL = int(unix.EINVAL)
	ERANGE = int(unix.ERANGE)
)

// Status maps an error from strtox (or anything wrapping an errno) to a
// status code. nil is OK, unknown errors are EINVAL.
func Status(err error) int {
	if err == nil {
		return OK
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return EINVAL
}

// Strtoul is ddi_strtoul(9F). endptr may be nil. On failure neither endptr
// nor result is written.
func Strtoul(str []byte, endptr *int, base int, result *uint) int {
	v, end, err := strtox.Strtoul(str, base)
	return store(v, end, err, endptr, result)
}

// Strtol is ddi_strtol(9F).
func Strtol(str []byte, endptr *int, base int, result *int) int {
	v, end, err := strtox.Strtol(str, base)
	return store(v, end, err, endptr, result)
}

// Strtoull is ddi_strtoull(9F).
func Strtoull(str []byte, endptr *int, base int, result *uint64) int {
	v, end, err := strtox.Strtoull(str, base)
	return store(v, end, err, endptr, result)
}

// Strtoll is ddi_strtoll(9F).
func Strtoll(str []byte, endptr *int, base int, result *int64) int {
	v, end, err := strtox.Strtoll(str, base)
	return store(v, end, err, endptr, result)
}

func store[T any](v T, end int, err error, endptr *int, result *T) int {
	if err != nil {
		return Status(err)
	}
	if result != nil {
		*result = v
	}
	if endptr != nil {
		*endptr = end
	}
	return OK
}
