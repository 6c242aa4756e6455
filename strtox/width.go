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

// Native width is the machine word (uint, int). Extended is C long long, which
// is 64 bits on every target the shim runs on.

// Strtoul parses a native-width unsigned integer.
func Strtoul(in []byte, base int, flags ...Flag) (uint, int, error) {
	return parseUnsigned[uint]("Strtoul", in, base, merge(flags))
}

// Strtol parses a native-width signed integer.
func Strtol(in []byte, base int, flags ...Flag) (int, int, error) {
	return parseSigned[int, uint]("Strtol", in, base, merge(flags))
}

// Strtoull parses an extended-width unsigned integer.
func Strtoull(in []byte, base int, flags ...Flag) (uint64, int, error) {
	return parseUnsigned[uint64]("Strtoull", in, base, merge(flags))
}

// Strtoll parses an extended-width signed integer.
func Strtoll(in []byte, base int, flags ...Flag) (int64, int, error) {
	return parseSigned[int64, uint64]("Strtoll", in, base, merge(flags))
}
