package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestDegreesRoundTrip(t *testing.T) {
	for deg := float32(-179.5); deg <= 180; deg += 0.5 {
		got := RadianToDegrees(DegreesToRadian(deg))
		if d := got - deg; d > 1e-3 || d < -1e-3 {
			t.Errorf("round trip %v: got %v", deg, got)
		}
	}
}

func TestUnwindDegrees(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{181, -179},
		{-181, 179},
		{540, 180},
		{725, 5},
		{-725, -5},
		{1e12, 144},
		{-1e12, -144},
	}
	for _, tt := range tests {
		if got := UnwindDegrees(tt.in); got != tt.want {
			t.Errorf("UnwindDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestUnwindDegreesNonFinite(t *testing.T) {
	for _, in := range []float32{math32.Inf(1), math32.Inf(-1)} {
		if got := UnwindDegrees(in); got != in {
			t.Errorf("UnwindDegrees(%v) = %v, want %v", in, got, in)
		}
	}
	if got := UnwindDegrees(math32.NaN()); !math32.IsNaN(got) {
		t.Errorf("UnwindDegrees(NaN) = %v, want NaN", got)
	}
}

// The lower bound folds onto the upper one, so -180 comes back as 180.
func TestDegreesRoundTripLowerBound(t *testing.T) {
	got := RadianToDegrees(DegreesToRadian(-180))
	if d := got - 180; d > 1e-3 || d < -1e-3 {
		t.Errorf("round trip -180: got %v, want 180", got)
	}
}

func TestUnwindDegreesIdempotent(t *testing.T) {
	for a := float32(-1000); a <= 1000; a += 7.25 {
		once := UnwindDegrees(a)
		if once <= -180 || once > 180 {
			t.Errorf("UnwindDegrees(%v) = %v, out of range", a, once)
		}
		if twice := UnwindDegrees(once); twice != once {
			t.Errorf("UnwindDegrees not idempotent at %v: %v then %v", a, once, twice)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(float32(50.05), 0.1, 50); got != 50 {
		t.Errorf("Clamp above = %v, want 50", got)
	}
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Errorf("Clamp below = %v, want 0", got)
	}
	if got := Clamp(4, 0, 10); got != 4 {
		t.Errorf("Clamp inside = %v, want 4", got)
	}
}
