package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidAmount(t *testing.T) {
	cases := map[string]bool{
		"10":              true,
		"0.01":            true,
		"9999999999.99":   true,
		"0":               false,
		"-5":              false,
		"0.004":           false,
		"9999999999.995":  false,
		"10000000000":     false,
		"123456789012345": false,
	}
	for raw, want := range cases {
		if got := ValidAmount(decimal.RequireFromString(raw)); got != want {
			t.Fatalf("ValidAmount(%s) = %v, want %v", raw, got, want)
		}
	}
}

func TestFits(t *testing.T) {
	if !Fits(MaxAmount) {
		t.Fatalf("expected max amount to fit")
	}
	if Fits(MaxAmount.Add(decimal.RequireFromString("0.01"))) {
		t.Fatalf("expected overflow to be rejected")
	}
}
