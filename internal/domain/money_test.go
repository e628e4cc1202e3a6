package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToCents(t *testing.T) {
	cases := map[string]int64{
		"0.01":     1,
		"0.1":      10,
		"19.99":    1999,
		"1.005":    100, // half to even
		"1.015":    102,
		"123":      12300,
		"4.35":     435,
		"21474836": 2147483600,
	}
	for in, want := range cases {
		d, err := decimal.NewFromString(in)
		if err != nil {
			t.Fatalf("parse %s: %v", in, err)
		}
		if got := ToCents(d); got != want {
			t.Errorf("ToCents(%s) = %d, want %d", in, got, want)
		}
	}
}

func TestToCentsRepeatedIsStable(t *testing.T) {
	// 0.29*100 drifts in binary floating point; decimal must not.
	d := decimal.RequireFromString("0.29")
	for i := 0; i < 1000; i++ {
		if got := ToCents(d); got != 29 {
			t.Fatalf("iteration %d: got %d", i, got)
		}
	}
}

func TestFromCents(t *testing.T) {
	if got := FromCents(15795); got != "157.95" {
		t.Fatalf("got %s", got)
	}
	if got := FromCents(500); got != "5.00" {
		t.Fatalf("got %s", got)
	}
}

func TestExceedsMaxAmount(t *testing.T) {
	cases := map[string]bool{
		"21474836.47":          false,
		"21474836.48":          true,
		"92233720368547758.08": true,
		"1e100":                true,
		"-1e100":               false,
		"0.004":                false,
	}
	for in, want := range cases {
		if got := ExceedsMaxAmount(decimal.RequireFromString(in)); got != want {
			t.Errorf("ExceedsMaxAmount(%s) = %v, want %v", in, got, want)
		}
	}
}
