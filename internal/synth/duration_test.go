package synth

import (
	"strings"
	"testing"
)

func TestEstimateDurationFloor(t *testing.T) {
	if got := EstimateDuration(""); got != 3.0 {
		t.Fatalf("empty text duration = %v, want 3.0", got)
	}
	if got := EstimateDuration("hi"); got != 3.0 {
		t.Fatalf("short text duration = %v, want 3.0", got)
	}
}

func TestEstimateDurationLinear(t *testing.T) {
	// 15 words at 150 wpm is six seconds.
	text := strings.Repeat("word ", 15)
	if got := EstimateDuration(text); got != 6.0 {
		t.Fatalf("duration = %v, want 6.0", got)
	}
}

func TestEstimateDurationCap(t *testing.T) {
	text := strings.Repeat("word ", 500)
	if got := EstimateDuration(text); got != 30.0 {
		t.Fatalf("duration = %v, want 30.0", got)
	}
}
