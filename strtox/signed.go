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

package strtox

import (
	"golang.org/x/exp/constraints"
)

// ParseSigned parses a signed integer of width S, with U the unsigned type of
// the same width. A single leading '-' negates, everything after it is handed
// to the unsigned parser with the same base and flags.
//
// The magnitude has to fit S: "-128" parses as int8, "128" does not.
func ParseSigned[S constraints.Signed, U constraints.Unsigned](in []byte, base int, flags ...Flag) (v S, end int, err error) {
	return parseSigned[S, U]("ParseSigned", in, base, merge(flags))
}

func parseSigned[S constraints.Signed, U constraints.Unsigned](fn string, in []byte, base int, flags Flag) (S, int, error) {
	maxPos := ^U(0) >> 1
	if len(in) == 0 || in[0] != '-' {
		u, end, err := parseUnsigned[U](fn, in, base, flags)
		if err != nil {
			return 0, 0, err
		}
		if u > maxPos {
			return 0, 0, rangeError(fn, in)
		}
		return S(u), end, nil
	}

	u, end, err := parseUnsigned[U](fn, in[1:], base, flags)
	if err != nil {
		err.(*NumError).Input = string(in)
		return 0, 0, err
	}
	if end == 0 {
		// only a sign, nothing converted
		return 0, 0, nil
	}
	if u > maxPos+1 {
		return 0, 0, rangeError(fn, in)
	}
	return -S(u), end + 1, nil
}
