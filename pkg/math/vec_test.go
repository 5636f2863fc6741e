package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	l := v.Normalize().Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("normalizing the zero vector should return zero")
	}
}

func TestVec4IsZeroRGB(t *testing.T) {
	if !RGBA(0, 0, 0, 1).IsZeroRGB() {
		t.Error("black with alpha should count as zero color")
	}
	if RGBA(0, 0.1, 0, 1).IsZeroRGB() {
		t.Error("non-black reported as zero")
	}
}
