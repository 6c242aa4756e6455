// Copyright © 2023 aerth
// Permission is hereby granted, free of charge, to any person obtaining a copy of this software and associated documentation files (the “Software”), to deal in the Software without restriction, including without limitation the rights to use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the Software, and to permit persons to whom the Software is furnished to do so, subject to the following conditions:
// The above copyright notice and this permission notice shall be included in all copies or substantial portions of the Software.
// THE SOFTWARE IS PROVIDED “AS IS”, WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package ncode

import (
	"golang.org/x/exp/constraints"

	"github.com/aerth/spl/strtox"
)

// ParseNumber string->~uint, whole string, base from prefix (0x.. hex, 0.. octal, else decimal)
func ParseNumber[T constraints.Unsigned](in string) (T, error) {
	if in == "0" { // auto-detect refuses a lone zero
		return 0, nil
	}
	return ParseBase[T](in, 0)
}

// ParseBase string->~uint, whole string must be consumed
func ParseBase[T constraints.Unsigned](in string, base int) (T, error) {
	v, end, err := strtox.ParseUnsigned[T]([]byte(in), base)
	if err != nil {
		return 0, err
	}
	if end != len(in) {
		return 0, &strtox.NumError{Func: "ParseBase", Input: in, Err: strtox.ErrSyntax}
	}
	return v, nil
}

// ParseSigned string->~int, same rules as ParseNumber with an optional leading '-'
func ParseSigned[T constraints.Signed, U constraints.Unsigned](in string) (T, error) {
	if in == "0" || in == "-0" {
		return 0, nil
	}
	v, end, err := strtox.ParseSigned[T, U]([]byte(in), 0)
	if err != nil {
		return 0, err
	}
	if end != len(in) {
		return 0, &strtox.NumError{Func: "ParseSigned", Input: in, Err: strtox.ErrSyntax}
	}
	return v, nil
}
