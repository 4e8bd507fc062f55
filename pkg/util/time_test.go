package util

import (
	"testing"
	"time"
)

func TestFormatSeconds(t *testing.T) {
	if got := FormatSeconds(2500 * time.Millisecond); got != "2.500" {
		t.Errorf("expected 2.500, got %q", got)
	}
	if got := FormatSeconds(0); got != "0.000" {
		t.Errorf("expected 0.000, got %q", got)
	}
}

func TestParseFrameRate(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 30000.0 / 1001.0},
		{"0/0", 0},
		{"garbage", 0},
		{"24", 0},
	}

	for _, tc := range cases {
		if got := ParseFrameRate(tc.in); got != tc.want {
			t.Errorf("ParseFrameRate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
