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

// ParseUnsigned parses an unsigned integer of width T from the start of in.
//
// base 0 auto-detects: "0x"/"0X" followed by a hex digit is hex, "0" followed
// by an octal digit is octal, anything else starting with '0' is rejected
// (including a lone "0"), and everything else is decimal. Any other base is
// used as given.
//
// end is the offset of the first byte that was not consumed. On error the
// returned value and end are zero and carry no meaning.
func ParseUnsigned[T constraints.Unsigned](in []byte, base int, flags ...Flag) (v T, end int, err error) {
	return parseUnsigned[T]("ParseUnsigned", in, base, merge(flags))
}

func parseUnsigned[T constraints.Unsigned](fn string, in []byte, base int, flags Flag) (T, int, error) {
	if len(in) == 0 {
		return 0, 0, syntaxError(fn, in)
	}
	start := 0
	if base == 0 {
		var ok bool
		base, start, ok = detectBase(in)
		if !ok {
			return 0, 0, syntaxError(fn, in)
		}
	}

	var (
		value T
		limit = ^T(0)
		ptr   = start
	)
	for ; ptr < len(in); ptr++ {
		d := digitValue(in[ptr])
		if d < 0 || d >= base {
			break
		}
		var ok bool
		value, ok = mulAdd(value, base, T(d), limit)
		if !ok {
			return 0, 0, rangeError(fn, in)
		}
	}

	if ptr == start {
		if flags.has(AllowEmpty) {
			return 0, 0, nil
		}
		return 0, 0, syntaxError(fn, in)
	}
	return value, ptr, nil
}

// detectBase picks a radix from the prefix of in, which must not be empty.
func detectBase(in []byte) (base, skip int, ok bool) {
	if in[0] != '0' {
		return 10, 0, true
	}
	if len(in) < 2 {
		return 0, 0, false
	}
	switch c := in[1]; {
	case (c == 'x' || c == 'X') && len(in) > 2 && isHex(in[2]):
		return 16, 2, true
	case c >= '0' && c <= '7':
		return 8, 1, true
	}
	return 0, 0, false
}

func isHex(c byte) bool {
	d := digitValue(c)
	return d >= 0 && d < 16
}

// digitValue maps 0-9 to 0-9 and ASCII letters to 10-35, case folded.
// Anything else is -1.
func digitValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

// mulAdd returns v*base+d, or false if the result would not fit in limit.
func mulAdd[T constraints.Unsigned](v T, base int, d T, limit T) (T, bool) {
	if uint64(base) > uint64(limit) {
		// radix itself doesn't fit in T, only a leading digit survives
		if v != 0 {
			return 0, false
		}
		return d, true
	}
	b := T(base)
	if v > (limit-d)/b {
		return 0, false
	}
	return v*b + d, true
}
