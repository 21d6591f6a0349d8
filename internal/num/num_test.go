package num

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParsePrice(t *testing.T) {
	if _, err := ParsePrice("101.25"); err != nil {
		t.Fatalf("valid price rejected: %v", err)
	}
	if _, err := ParsePrice("0"); err != nil {
		t.Fatalf("zero price must be valid: %v", err)
	}
	if _, err := ParsePrice(" 42 "); err != nil {
		t.Fatalf("whitespace should be trimmed: %v", err)
	}
	if _, err := ParsePrice("-1"); err == nil {
		t.Fatalf("negative price accepted")
	}
	if _, err := ParsePrice("abc"); err == nil {
		t.Fatalf("non-numeric price accepted")
	}
}

func TestParseQty(t *testing.T) {
	if _, err := ParseQty("3"); err != nil {
		t.Fatalf("valid qty rejected: %v", err)
	}
	if _, err := ParseQty("0"); err == nil {
		t.Fatalf("zero qty accepted")
	}
	if _, err := ParseQty("-2"); err == nil {
		t.Fatalf("negative qty accepted")
	}
	if _, err := ParseQty(""); err == nil {
		t.Fatalf("empty qty accepted")
	}
}

func TestCanon(t *testing.T) {
	cases := []struct{ in, want string }{
		{"0", "0"},
		{"0.000", "0"},
		{"-0", "0"},
		{"1.50", "1.5"},
		{"100", "100"},
		{"100.000", "100"},
		{"0.1000", "0.1"},
		{"-2.30", "-2.3"},
	}
	for _, c := range cases {
		d, err := decimal.NewFromString(c.in)
		if err != nil {
			t.Fatalf("parse %q: %v", c.in, err)
		}
		if got := Canon(d); got != c.want {
			t.Fatalf("Canon(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCanonStableAcrossScales(t *testing.T) {
	a, _ := decimal.NewFromString("1.5")
	b, _ := decimal.NewFromString("1.500")
	if Canon(a) != Canon(b) {
		t.Fatalf("same value rendered differently: %q vs %q", Canon(a), Canon(b))
	}
}
