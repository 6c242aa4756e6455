// flagpkg package provides some additional flag functions. (InverseBoolVar, NumberVar)
package flagpkg

import (
	"flag"
	"fmt"
	"strconv"

	"golang.org/x/exp/constraints"

	"github.com/aerth/spl/ncode"
)

// InverseBoolVar defines a flag on fs that inverts a bool value.
//
// For example, "--no-journal" would set journal to false.
//
// Using --no-journal=false would set to true.
//
// Omitting flag does not change the value at all.
func InverseBoolVar(fs *flag.FlagSet, p *bool, name string, value bool, usage string) {
	if fs == nil {
		fs = flag.CommandLine
	}
	fs.Var(newBoolValue(value, p), name, usage)
}

// -- inversebool  Value
// mostly from https://go.dev/src/flag/flag.go
// except: we invert the value below, in Set
type inverseboolValue bool

func newBoolValue(val bool, p *bool) *inverseboolValue {
	*p = val
	return (*inverseboolValue)(p)
}

func (b *inverseboolValue) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid bool value: %v", err)
	}
	*b = inverseboolValue(!v) // invert value
	return nil
}

func (b *inverseboolValue) Get() any { return bool(*b) }

func (b *inverseboolValue) String() string { return strconv.FormatBool(bool(*b)) }

func (b *inverseboolValue) IsBoolFlag() bool { return true }

// NumberVar defines an unsigned flag on fs that accepts 0x (hex) and 0 (octal)
// prefixes, like the kernel module parameters it mirrors.
func NumberVar[T constraints.Unsigned](fs *flag.FlagSet, p *T, name string, value T, usage string) {
	if fs == nil {
		fs = flag.CommandLine
	}
	*p = value
	fs.Var(&numberValue[T]{p}, name, usage)
}

type numberValue[T constraints.Unsigned] struct {
	p *T
}

func (n *numberValue[T]) Set(s string) error {
	v, err := ncode.ParseNumber[T](s)
	if err != nil {
		return err
	}
	*n.p = v
	return nil
}

func (n *numberValue[T]) Get() any { return *n.p }

func (n *numberValue[T]) String() string {
	if n == nil || n.p == nil {
		return "0"
	}
	return strconv.FormatUint(uint64(*n.p), 10)
}
