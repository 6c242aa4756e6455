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

// strtox package parses integers out of byte strings the way the Solaris
// ddi_strtol(9F) family does: optional base auto-detection from a 0/0x prefix,
// stop at the first byte that is not a digit in the base, and report where
// parsing stopped.
//
// Unlike strconv, trailing garbage is not an error. The returned cursor tells
// the caller how much of the input was used.
package strtox

import (
	"strconv"

	"golang.org/x/sys/unix"
)

// ErrSyntax is returned for empty input, a bad auto-detect prefix, or when no
// digit was consumed (see AllowEmpty).
var ErrSyntax error = unix.EINVAL

// ErrRange is returned when the value does not fit the requested width.
var ErrRange error = unix.ERANGE

// Flag changes parser behavior. Flags are OR'd together.
type Flag uint8

const (
	// AllowEmpty reports success with value 0 and the cursor at the start of
	// the input when no digit could be consumed, instead of ErrSyntax.
	//
	// This is how the kernel shim has always behaved, keep it for callers that
	// depend on "<none>" parsing as zero.
	AllowEmpty Flag = 1 << iota
)

func (f Flag) has(x Flag) bool { return f&x != 0 }

func merge(flags []Flag) Flag {
	var f Flag
	for _, x := range flags {
		f |= x
	}
	return f
}

// NumError records a failed conversion.
type NumError struct {
	Func  string // the failing function (Strtoul, ParseSigned, ...)
	Input string // the input, quoted in Error()
	Err   error  // ErrSyntax or ErrRange
}

func (e *NumError) Error() string {
	return "strtox." + e.Func + ": parsing " + strconv.Quote(e.Input) + ": " + e.Err.Error()
}

func (e *NumError) Unwrap() error { return e.Err }

func syntaxError(fn string, in []byte) *NumError {
	return &NumError{Func: fn, Input: string(in), Err: ErrSyntax}
}

func rangeError(fn string, in []byte) *NumError {
	return &NumError{Func: fn, Input: string(in), Err: ErrRange}
}
