package jsast

import (
	"math"
	"testing"
)

func TestUnquoteString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`'abc'`, "abc"},
		{`"abc"`, "abc"},
		{`''`, ""},
		{`'a\nb'`, "a\nb"},
		{`'it\'s'`, "it's"},
		{`"say \"hi\""`, `say "hi"`},
		{`'a\\b'`, `a\b`},
		{`'\x41'`, "A"},
		{`'A'`, "A"},
		{`'\u{1F600}'`, "\U0001F600"},
		{`'😀'`, "\U0001F600"},
		{"'a\\\nb'", "ab"},
		{`'\q'`, "q"},
		{`'\xZZ'`, `\xZZ`},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := UnquoteString(tt.raw); got != tt.want {
				t.Errorf("UnquoteString(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"1", 1, true},
		{"1.5", 1.5, true},
		{"1e3", 1000, true},
		{".5", 0.5, true},
		{"0xff", 255, true},
		{"0XFF", 255, true},
		{"0o17", 15, true},
		{"0b101", 5, true},
		{"017", 15, true},
		{"019", 19, true},
		{"1_000", 1000, true},
		{"10n", 10, true},
		{"0x", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseNumber(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{100, "100"},
		{1.5, "1.5"},
		{-2.25, "-2.25"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{1.5e-7, "1.5e-7"},
		{1e21, "1e+21"},
		{1.25e22, "1.25e+22"},
		{123456789012345680000, "123456789012345680000"},
		{math.Inf(1), "Infinity"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatNumber(tt.in); got != tt.want {
				t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
