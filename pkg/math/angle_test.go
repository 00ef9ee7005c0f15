package math

import (
	"math"
	"testing"
)

func near(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestSinCos(t *testing.T) {
	tests := []struct {
		a        Angle
		sin, cos float32
	}{
		{0, 0, 1},
		{Quarter, 1, 0},
		{-Quarter, -1, 0},
		{Half, 0, -1},
		{Eighth, float32(math.Sqrt2 / 2), float32(math.Sqrt2 / 2)},
	}

	for _, tt := range tests {
		if got := Sin(tt.a); !near(got, tt.sin, 1e-4) {
			t.Errorf("Sin(%#x) = %f, want %f", tt.a, got, tt.sin)
		}
		if got := Cos(tt.a); !near(got, tt.cos, 1e-4) {
			t.Errorf("Cos(%#x) = %f, want %f", tt.a, got, tt.cos)
		}
	}
}

func TestAngleWraps(t *testing.T) {
	a := Angle(0x7000)
	a += 0x2000
	if a != -0x7000 {
		t.Errorf("0x7000 + 0x2000 = %#x, want -0x7000", a)
	}
	if got := AngleFromFloat(40000); got != Angle(int16(40000-65536)) {
		t.Errorf("AngleFromFloat(40000) = %d", got)
	}
}

func TestHeadingRoundTrip(t *testing.T) {
	for _, a := range []Angle{0, 1500, Quarter, -Quarter, 0x6000, -0x7ff0} {
		got := Heading(Cos(a)*750, Sin(a)*750)
		if AbsDiff(got, a) > 1 {
			t.Errorf("Heading(Cos(%d), Sin(%d)) = %d", a, a, got)
		}
	}
	if Heading(0, 0) != 0 {
		t.Error("Heading(0, 0) should be 0")
	}
}
