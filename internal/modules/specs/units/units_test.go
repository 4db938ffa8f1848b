package units

import (
	"math"
	"testing"
)

func TestParseInches(t *testing.T) {
	cases := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{name: "mixed_space", in: `1 1/2"`, want: 1.5, wantOK: true},
		{name: "mixed_hyphen", in: `1-1/2"`, want: 1.5, wantOK: true},
		{name: "fraction", in: `1/2"`, want: 0.5, wantOK: true},
		{name: "integer", in: `2"`, want: 2, wantOK: true},
		{name: "decimal", in: `2.5"`, want: 2.5, wantOK: true},
		{name: "leading_dot", in: `.75`, want: 0.75, wantOK: true},
		{name: "no_inch_mark", in: "3 3/4", want: 3.75, wantOK: true},
		{name: "padded", in: `  4"  `, want: 4, wantOK: true},
		{name: "number_passthrough", in: 2.25, want: 2.25, wantOK: true},
		{name: "int_passthrough", in: 3, want: 3, wantOK: true},
		{name: "empty", in: "", wantOK: false},
		{name: "lone_hyphen", in: "-", wantOK: false},
		{name: "zero_denominator", in: `1/0"`, wantOK: false},
		{name: "mixed_zero_denominator", in: "1 1/0", wantOK: false},
		{name: "words", in: "two inches", wantOK: false},
		{name: "negative", in: "-2", wantOK: false},
		{name: "nil", in: nil, wantOK: false},
		{name: "bool", in: true, wantOK: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseInches(tc.in)
			if ok != tc.wantOK {
				t.Fatalf("ParseInches(%v) ok=%v, want %v", tc.in, ok, tc.wantOK)
			}
			if ok && math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("ParseInches(%v)=%v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseInchesWellFormedMixedNumbers(t *testing.T) {
	for whole := 0; whole <= 6; whole++ {
		for den := 2; den <= 16; den *= 2 {
			for num := 1; num < den; num++ {
				in := itoa(whole) + " " + itoa(num) + "/" + itoa(den) + `"`
				got, ok := ParseInches(in)
				want := float64(whole) + float64(num)/float64(den)
				if !ok || math.Abs(got-want) > 1e-9 {
					t.Fatalf("ParseInches(%q)=(%v,%v), want %v", in, got, ok, want)
				}
			}
		}
	}
}

func itoa(i int) string { return ToString(i) }

func TestCompareInches(t *testing.T) {
	if !CompareInches(`1/3"`, `0.333"`, DefaultTolerance) {
		t.Fatalf(`1/3" should equal 0.333" within tolerance`)
	}
	if CompareInches(`1/2"`, `0.6"`, DefaultTolerance) {
		t.Fatalf(`1/2" should not equal 0.6"`)
	}
	if CompareInches("abc", `1"`, DefaultTolerance) {
		t.Fatalf("unparsable side must compare false")
	}
	if !CompareInches(`2"`, 2.0, DefaultTolerance) {
		t.Fatalf("string and number forms should compare")
	}
}

func TestIsInRange(t *testing.T) {
	cases := []struct {
		name          string
		value, lo, hi any
		want          bool
	}{
		{name: "inside", value: `2"`, lo: `1"`, hi: `3"`, want: true},
		{name: "inclusive_both_ends", value: `2"`, lo: `2"`, hi: `2"`, want: true},
		{name: "above_max_only", value: `3.5"`, lo: nil, hi: `3"`, want: false},
		{name: "below_min", value: `1/2"`, lo: `1"`, hi: nil, want: false},
		{name: "no_bounds", value: `9"`, want: true},
		{name: "bad_value", value: "large", lo: `1"`, want: false},
		{name: "bad_min", value: `2"`, lo: "tiny", want: false},
		{name: "bad_max", value: `2"`, hi: "big", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsInRange(tc.value, tc.lo, tc.hi); got != tc.want {
				t.Fatalf("IsInRange(%v,%v,%v)=%v, want %v", tc.value, tc.lo, tc.hi, got, tc.want)
			}
		})
	}
}

func TestNormalizePropertyValue(t *testing.T) {
	if got := NormalizePropertyValue("pipe_diameter", `1 1/2"`); got != 1.5 {
		t.Fatalf("diameter should normalize to 1.5, got %v", got)
	}
	if got := NormalizePropertyValue("Thickness", `1"`); got != 1.0 {
		t.Fatalf("key match should ignore case, got %v", got)
	}
	if got := NormalizePropertyValue("size", "XL"); got != "XL" {
		t.Fatalf("unparsable dimension should pass through, got %v", got)
	}
	if got := NormalizePropertyValue("color", `2"`); got != `2"` {
		t.Fatalf("non-dimension key should pass through, got %v", got)
	}
}

func TestComparePropertyValues(t *testing.T) {
	if !ComparePropertyValues("outer_diameter", `2"`, "2.0") {
		t.Fatalf("numeric dimensions should compare numerically")
	}
	if !ComparePropertyValues("color", "White", "white") {
		t.Fatalf("strings should compare case-insensitively")
	}
	if ComparePropertyValues("color", "white", "black") {
		t.Fatalf("different strings must not match")
	}
}
