package flagpkg

import (
	"flag"
	"io"
	"testing"
)

func TestInverseBoolVar(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	var journal bool
	InverseBoolVar(fs, &journal, "no-journal", true, "log to stderr instead of the journal")
	if !journal {
		t.Fatal("default should be true")
	}
	if err := fs.Parse([]string{"--no-journal"}); err != nil {
		t.Fatal(err)
	}
	if journal {
		t.Fatal("--no-journal should clear journal")
	}
	if err := fs.Parse([]string{"--no-journal=false"}); err != nil {
		t.Fatal(err)
	}
	if !journal {
		t.Fatal("--no-journal=false should set journal")
	}
}

func TestNumberVar(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var base uint
	var id uint32
	NumberVar(fs, &base, "base", 10, "radix")
	NumberVar(fs, &id, "hostid", 0, "host id")
	if err := fs.Parse([]string{"-base", "0x10", "-hostid", "0xdeadbeef"}); err != nil {
		t.Fatal(err)
	}
	if base != 16 || id != 0xdeadbeef {
		t.Fatalf("base=%d id=%#x", base, id)
	}
	if err := fs.Parse([]string{"-hostid", "0x100000000"}); err == nil {
		t.Fatal("overflow should be rejected")
	}
	if err := fs.Parse([]string{"-base", "0"}); err != nil || base != 0 {
		t.Fatalf("lone zero: %d %v", base, err)
	}
}
