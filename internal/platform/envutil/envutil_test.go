package envutil

import (
	"testing"
	"time"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("ENVUTIL_INT", "nope")
	if got := Int("ENVUTIL_INT", 7); got != 7 {
		t.Fatalf("Int()=%d, want 7", got)
	}
	t.Setenv("ENVUTIL_INT", " 42 ")
	if got := Int("ENVUTIL_INT", 7); got != 42 {
		t.Fatalf("Int()=%d, want 42", got)
	}
}

func TestBool(t *testing.T) {
	cases := []struct {
		raw  string
		def  bool
		want bool
	}{
		{raw: "", def: true, want: true},
		{raw: "off", def: true, want: false},
		{raw: "YES", def: false, want: true},
		{raw: "maybe", def: false, want: false},
	}
	for _, tc := range cases {
		t.Setenv("ENVUTIL_BOOL", tc.raw)
		if got := Bool("ENVUTIL_BOOL", tc.def); got != tc.want {
			t.Fatalf("Bool(%q, %v)=%v, want %v", tc.raw, tc.def, got, tc.want)
		}
	}
}

func TestSecondsAndString(t *testing.T) {
	t.Setenv("ENVUTIL_TTL", "30")
	if got := Seconds("ENVUTIL_TTL", 5); got != 30*time.Second {
		t.Fatalf("Seconds()=%v, want 30s", got)
	}
	if got := String("ENVUTIL_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("String()=%q, want fallback", got)
	}
}

func TestFloatAndSeconds(t *testing.T) {
	t.Setenv("ENVUTIL_FLOAT", "0.5")
	if got := Float("ENVUTIL_FLOAT", 0.1); got != 0.5 {
		t.Fatalf("Float()=%v, want 0.5", got)
	}
	t.Setenv("ENVUTIL_FLOAT", "half")
	if got := Float("ENVUTIL_FLOAT", 0.1); got != 0.1 {
		t.Fatalf("Float()=%v, want 0.1", got)
	}
	t.Setenv("ENVUTIL_SECONDS", "90")
	if got := Seconds("ENVUTIL_SECONDS", 5); got != 90*time.Second {
		t.Fatalf("Seconds()=%v, want 90s", got)
	}
}
