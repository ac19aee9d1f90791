package vecd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermat-boruvka/gngp/vecd"
)

func TestNewAABB(t *testing.T) {
	box, err := vecd.NewAABB(vecd.Vec{-1, -1}, vecd.Vec{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, box.Dim())
	assert.InDelta(t, 4.0, box.Volume(), 1e-12)

	_, err = vecd.NewAABB(vecd.Vec{1, 1}, vecd.Vec{-1, -1})
	assert.ErrorIs(t, err, vecd.ErrInvertedAABB)

	_, err = vecd.NewAABB(vecd.Vec{1}, vecd.Vec{1, 1})
	assert.ErrorIs(t, err, vecd.ErrDimMismatch)
}

func TestDist2AndNorm(t *testing.T) {
	a := vecd.Vec{0, 0}
	b := vecd.Vec{3, 4}
	d2, err := vecd.Dist2(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, d2, 1e-12)
	assert.InDelta(t, 5.0, vecd.Norm(b), 1e-12)
}

func TestMoveToward(t *testing.T) {
	a := vecd.Vec{0, 0}
	b := vecd.Vec{10, 0}
	dst := a.Clone()
	require.NoError(t, vecd.MoveToward(dst, a, b, 0.5))
	assert.Equal(t, vecd.Vec{5, 0}, dst)
}

func TestClamp(t *testing.T) {
	box, err := vecd.NewAABB(vecd.Vec{0, 0}, vecd.Vec{1, 1})
	require.NoError(t, err)

	v := vecd.Vec{2, -1}
	moved, err := vecd.Clamp(v, box)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, vecd.Vec{1, 0}, v)

	v2 := vecd.Vec{0.5, 0.5}
	moved, err = vecd.Clamp(v2, box)
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestEqual(t *testing.T) {
	a := vecd.Vec{1, 2, 3}
	b := vecd.Vec{1, 2, 3.0000001}
	assert.True(t, vecd.Equal(a, b, 1e-6))
	assert.False(t, vecd.Equal(a, b, 1e-9))
}
