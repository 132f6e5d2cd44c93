package utils

import (
	"math/big"
	"testing"
)

func TestFormatBigInt(t *testing.T) {
	cases := []struct {
		name     string
		amount   *big.Int
		decimals uint8
		want     string
	}{
		{"nil amount", nil, 18, "0"},
		{"zero", big.NewInt(0), 18, "0"},
		{"whole", big.NewInt(2e18), 18, "2"},
		{"fraction", big.NewInt(1234500000000000000), 18, "1.2345"},
		{"six decimals", big.NewInt(1234500), 6, "1.2345"},
		{"sub one", big.NewInt(5), 6, "0.000005"},
		{"zero decimals", big.NewInt(42), 0, "42"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FormatBigInt(tc.amount, tc.decimals)
			if err != nil {
				t.Fatalf("FormatBigInt: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("1.5", 6)
	if err != nil {
		t.Fatalf("ParseAmount: %v", err)
	}
	if got.Cmp(big.NewInt(1500000)) != 0 {
		t.Fatalf("got %s, want 1500000", got)
	}

	got, err = ParseAmount("0.000001", 18)
	if err != nil {
		t.Fatalf("ParseAmount: %v", err)
	}
	if got.Cmp(big.NewInt(1e12)) != 0 {
		t.Fatalf("got %s, want 1e12", got)
	}

	for _, bad := range []string{"", "abc", "-1", "0", "1.2345678", "1,5"} {
		if _, err := ParseAmount(bad, 6); err == nil {
			t.Fatalf("ParseAmount(%q) expected error", bad)
		}
	}
}
