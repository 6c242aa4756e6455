package ncode

import (
	"errors"
	"testing"

	"github.com/aerth/spl/strtox"
)

func TestParseNumber(t *testing.T) {
	for in, want := range map[string]uint32{
		"0":          0,
		"10":         10,
		"0x10":       16,
		"010":        8,
		"0xffffffff": 0xffffffff,
	} {
		got, err := ParseNumber[uint32](in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: got %d want %d", in, got, want)
		}
	}
	for _, in := range []string{"", "10x", "0x1g", "08", "0x100000000"} {
		if _, err := ParseNumber[uint32](in); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
	if _, err := ParseNumber[uint32]("12 "); !errors.Is(err, strtox.ErrSyntax) {
		t.Fatalf("trailing space: want ErrSyntax, got %v", err)
	}
}

func TestParseSigned(t *testing.T) {
	got, err := ParseSigned[int32, uint32]("-0x10")
	if err != nil || got != -16 {
		t.Fatalf("got %d, %v", got, err)
	}
	if _, err := ParseSigned[int32, uint32]("2147483648"); !errors.Is(err, strtox.ErrRange) {
		t.Fatalf("want ErrRange, got %v", err)
	}
}

func TestN2B(t *testing.T) {
	b := N2B(uint32(0x007f0101))
	if len(b) != 4 || b[0] != 0x01 || b[3] != 0x00 {
		t.Fatalf("unexpected encoding: % x", b)
	}
	n, err := B2N[uint32](b)
	if err != nil || n != 0x007f0101 {
		t.Fatalf("B2N: %x %v", n, err)
	}
	if _, err := B2N[uint16](b); err == nil {
		t.Fatalf("4 bytes should not fit uint16")
	}
}

type record struct {
	Serial string `json:"serial"`
}

func TestDecodeJson(t *testing.T) {
	if _, err := DecodeJson[record](nil); err != ErrZeroLength {
		t.Fatalf("want ErrZeroLength, got %v", err)
	}
	r, err := DecodeJson[record](Json(record{Serial: "007f0101"}))
	if err != nil || r.Serial != "007f0101" {
		t.Fatalf("got %+v %v", r, err)
	}
}
