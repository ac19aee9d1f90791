package geom3_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"

	"github.com/fermat-boruvka/gngp/geom3"
)

func TestQuatFromMat3RoundTrip(t *testing.T) {
	cases := []geom3.Mat3{
		geom3.Identity3(),
		geom3.RotationFromAxisAngle(r3.Vector{X: 1}, math.Pi/3),
		geom3.RotationFromAxisAngle(r3.Vector{Y: 1}, math.Pi/2),
		geom3.RotationFromAxisAngle(r3.Vector{X: 1, Y: 1, Z: 1}, 2.1),
		geom3.RotationFromEuler(0.4, -1.2, 0.9),
	}

	for _, m := range cases {
		q := geom3.QuatFromMat3(m)
		back := q.ToMat3()
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				assert.InDelta(t, m[i][j], back[i][j], 1e-6)
			}
		}
	}
}

// TestQuatFromMat3SetsAllComponents guards against the bug where only the
// X component is ever assigned: a 180-degree rotation about Y must produce a
// quaternion with a non-zero Y component and a near-zero X component.
func TestQuatFromMat3SetsAllComponents(t *testing.T) {
	m := geom3.RotationFromAxisAngle(r3.Vector{Y: 1}, math.Pi)
	q := geom3.QuatFromMat3(m)

	assert.InDelta(t, 0.0, q.X, 1e-6)
	assert.InDelta(t, 1.0, math.Abs(q.Y), 1e-6)
	assert.InDelta(t, 0.0, q.Z, 1e-6)
}

func TestQuatMulIdentity(t *testing.T) {
	q := geom3.QuatFromMat3(geom3.RotationFromAxisAngle(r3.Vector{X: 1}, 0.7))
	id := geom3.IdentityQuat()

	got := q.Mul(id)
	assert.InDelta(t, q.W, got.W, 1e-12)
	assert.InDelta(t, q.X, got.X, 1e-12)
	assert.InDelta(t, q.Y, got.Y, 1e-12)
	assert.InDelta(t, q.Z, got.Z, 1e-12)
}
