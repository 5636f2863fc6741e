package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/forwardlit/pkg/math"
)

func expectedWorld(p, r, s math.Vec3) math.Mat4 {
	return math.Scale(s.X, s.Y, s.Z).
		Mul(RotationMatrix(r)).
		Mul(math.Translate(p.X, p.Y, p.Z))
}

func TestSettersKeepWorldInSync(t *testing.T) {
	tr := Identity()
	assert.Equal(t, math.Identity(), tr.World())

	cases := []struct {
		name string
		p, r, s math.Vec3
	}{
		{"translate", math.Vec3{X: 1, Y: 2, Z: 3}, math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1}},
		{"rotate", math.Vec3{X: 1, Y: 2, Z: 3}, math.Vec3{X: 30, Y: -45, Z: 90}, math.Vec3{X: 1, Y: 1, Z: 1}},
		{"scale", math.Vec3{X: -4, Z: 8}, math.Vec3{Y: 180}, math.Vec3{X: 2, Y: 0.5, Z: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr.SetPosition(tc.p)
			assert.Equal(t, expectedWorld(tc.p, tr.Rotation(), tr.Scale()), tr.World())
			tr.SetRotation(tc.r)
			assert.Equal(t, expectedWorld(tc.p, tc.r, tr.Scale()), tr.World())
			tr.SetScale(tc.s)
			assert.Equal(t, expectedWorld(tc.p, tc.r, tc.s), tr.World())
		})
	}
}

func TestScaleAppliedBeforeTranslation(t *testing.T) {
	tr := New(math.Vec3{X: 10}, math.Vec3{}, math.Vec3{X: 2, Y: 2, Z: 2})
	got := tr.World().TransformPoint(math.Vec3{X: 1})
	assert.True(t, got.ApproxEqual(math.Vec3{X: 12}, 1e-5), "got %v", got)
}

func TestDirectionVectors(t *testing.T) {
	tr := Identity()
	assert.Equal(t, math.Vec3{Z: 1}, tr.Forward())
	assert.Equal(t, math.Vec3{X: 1}, tr.Right())
	assert.Equal(t, math.Vec3{Y: 1}, tr.Up())

	// Yaw 90 degrees turns forward to +X in a left-handed system.
	tr.SetRotation(math.Vec3{Y: 90})
	assert.True(t, tr.Forward().ApproxEqual(math.Vec3{X: 1}, 1e-5), "forward %v", tr.Forward())
	assert.True(t, tr.Right().ApproxEqual(math.Vec3{Z: -1}, 1e-5), "right %v", tr.Right())
	assert.True(t, tr.Up().ApproxEqual(math.Vec3{Y: 1}, 1e-5), "up %v", tr.Up())
}
