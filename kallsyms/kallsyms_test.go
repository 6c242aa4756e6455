package kallsyms

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `0000000000000000 A fixed_percpu_data
ffffffff81000000 T _stext
ffffffff810a2b30 T kallsyms_lookup_name
ffffffffc0a01000 t zfs_init	[zfs]
ffffffff810a2b30 T kallsyms_lookup_name_dup
`

func TestFind(t *testing.T) {
	ctx := context.Background()
	v, err := Find(ctx, strings.NewReader(sample), LookupNameSymbol)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if v != 0xffffffff810a2b30 {
		t.Fatalf("got %#x", v)
	}
	if v, err := Find(ctx, strings.NewReader(sample), "zfs_init"); err != nil || v != 0xffffffffc0a01000 {
		t.Fatalf("module symbol: %#x %v", v, err)
	}
	if _, err := Find(ctx, strings.NewReader(sample), "fixed_percpu_data"); !errors.Is(err, ErrHidden) {
		t.Fatalf("zero address: %v", err)
	}
	if _, err := Find(ctx, strings.NewReader(sample), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}
	if _, err := Find(ctx, strings.NewReader("ffffffffzz000000 T bad\n"), "bad"); err == nil {
		t.Fatal("bad address should fail")
	}
}

func TestFindCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Find(ctx, strings.NewReader(sample), LookupNameSymbol); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestProcResolver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kallsyms")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	v, err := ProcResolver{Path: path}.Lookup(context.Background(), "_stext")
	if err != nil || v != 0xffffffff81000000 {
		t.Fatalf("got %#x %v", v, err)
	}
	if _, err := (ProcResolver{Path: path + ".missing"}).Lookup(context.Background(), "_stext"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}
}

func TestSplitLine(t *testing.T) {
	addr, sym, ok := splitLine([]byte("  ffff   t\tname [mod]"))
	if !ok || string(addr) != "ffff" || string(sym) != "name" {
		t.Fatalf("got %q %q %v", addr, sym, ok)
	}
	if _, _, ok := splitLine([]byte("ffff t")); ok {
		t.Fatal("two fields should not parse")
	}
}
