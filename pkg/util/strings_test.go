package util

import (
	"testing"
)

func TestParseInt(t *testing.T) {
	if v, ok := ParseInt(" 2 "); !ok || v != 2 {
		t.Fatalf("expected 2, got %d %v", v, ok)
	}
	for _, s := range []string{"", "two", "2.5", "3x"} {
		if _, ok := ParseInt(s); ok {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestParseFloat(t *testing.T) {
	if v, ok := ParseFloat("0.847"); !ok || v != 0.847 {
		t.Fatalf("unexpected %v %v", v, ok)
	}
	for _, s := range []string{"", "NaN", "Inf", "abc"} {
		if _, ok := ParseFloat(s); ok {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}
