package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"8:00", "8"},
		{"2:15", "2.25"},
		{"0:30", "0.5"},
		{":30", "0.5"},
		{":45", "0.75"},
		{"10", "10"},
		{"  7:30  ", "7.5"},
		{"", "0"},
		{"   ", "0"},
		{"abc", "0"},
		{"abc:30", "0.5"},
		{"8:xx", "8"},
		{"-3:30", "0.5"},
	}
	for _, tc := range cases {
		got := ParseDuration(tc.raw)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("ParseDuration(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestSplitClock(t *testing.T) {
	hour, minute, ok := splitClock("18:30")
	if !ok || hour != 18 || minute != 30 {
		t.Fatalf("splitClock(18:30) = %d,%d,%v", hour, minute, ok)
	}
	if _, _, ok := splitClock(""); ok {
		t.Fatal("expected empty start time to be unusable")
	}
	if _, _, ok := splitClock("25:00"); ok {
		t.Fatal("expected out of range hour to be unusable")
	}
	hour, minute, ok = splitClock("9")
	if !ok || hour != 9 || minute != 0 {
		t.Fatalf("splitClock(9) = %d,%d,%v", hour, minute, ok)
	}
}
