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

// kallsyms package looks up kernel symbol addresses from /proc/kallsyms.
package kallsyms

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aerth/spl/strtox"
)

// Poison marks an address that has not been resolved yet.
const Poison uint64 = 0x5a5a5a5a5a5a5a5a

// LookupNameSymbol is the symbol the porting layer needs before anything else.
const LookupNameSymbol = "kallsyms_lookup_name"

var (
	ErrNotFound = errors.New("kallsyms: symbol not found")
	// ErrHidden means the symbol exists but the kernel shows its address as
	// zero (kptr_restrict, or not root).
	ErrHidden = errors.New("kallsyms: address hidden")
)

// Resolver finds the address of a kernel symbol.
type Resolver interface {
	Lookup(ctx context.Context, name string) (uint64, error)
}

// ProcResolver reads a kallsyms formatted file.
type ProcResolver struct {
	Path string // default /proc/kallsyms
}

func (p ProcResolver) Lookup(ctx context.Context, name string) (uint64, error) {
	path := p.Path
	if path == "" {
		path = "/proc/kallsyms"
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("kallsyms: %w", err)
	}
	defer f.Close()
	return Find(ctx, f, name)
}

// Find scans r for the first line whose symbol is name and returns its address.
//
// Lines look like "ffffffff810a2b30 T kallsyms_lookup_name" with an optional
// trailing "[module]".
func Find(ctx context.Context, r io.Reader, name string) (uint64, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for n := 0; sc.Scan(); n++ {
		if n&1023 == 0 && ctx.Err() != nil {
			return 0, ctx.Err()
		}
		addr, sym, ok := splitLine(sc.Bytes())
		if !ok || string(sym) != name {
			continue
		}
		v, end, err := strtox.Strtoull(addr, 16)
		if err != nil {
			return 0, fmt.Errorf("kallsyms: %s: %w", name, err)
		}
		if end != len(addr) {
			return 0, fmt.Errorf("kallsyms: %s: bad address %q", name, addr)
		}
		if v == 0 {
			return 0, fmt.Errorf("%w: %s", ErrHidden, name)
		}
		return v, nil
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("kallsyms: %w", err)
	}
	return 0, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// splitLine returns the first and third whitespace separated fields.
func splitLine(line []byte) (addr, sym []byte, ok bool) {
	var fields [3][]byte
	n := 0
	for i := 0; i < len(line) && n < 3; {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		start := i
		for i < len(line) && !isSpace(line[i]) {
			i++
		}
		if start < i {
			fields[n] = line[start:i]
			n++
		}
	}
	if n < 3 {
		return nil, nil, false
	}
	return fields[0], fields[2], true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
