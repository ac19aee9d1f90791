package geom3

import "math"

// Quat is a unit quaternion (W, X, Y, Z) representing a rotation.
type Quat struct {
	W, X, Y, Z float64
}

// IdentityQuat returns the identity rotation.
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// QuatFromMat3 extracts a unit quaternion from a rotation matrix using the
// standard trace-based method, choosing the largest-denominator branch for
// numerical stability.
//
// All four components are set from the matrix in every branch.
func QuatFromMat3(m Mat3) Quat {
	trace := m[0][0] + m[1][1] + m[2][2]

	var q Quat
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1.0)
		q.W = 0.25 / s
		q.X = (m[2][1] - m[1][2]) * s
		q.Y = (m[0][2] - m[2][0]) * s
		q.Z = (m[1][0] - m[0][1]) * s
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := 2.0 * math.Sqrt(1.0+m[0][0]-m[1][1]-m[2][2])
		q.W = (m[2][1] - m[1][2]) / s
		q.X = 0.25 * s
		q.Y = (m[0][1] + m[1][0]) / s
		q.Z = (m[0][2] + m[2][0]) / s
	case m[1][1] > m[2][2]:
		s := 2.0 * math.Sqrt(1.0+m[1][1]-m[0][0]-m[2][2])
		q.W = (m[0][2] - m[2][0]) / s
		q.X = (m[0][1] + m[1][0]) / s
		q.Y = 0.25 * s
		q.Z = (m[1][2] + m[2][1]) / s
	default:
		s := 2.0 * math.Sqrt(1.0+m[2][2]-m[0][0]-m[1][1])
		q.W = (m[1][0] - m[0][1]) / s
		q.X = (m[0][2] + m[2][0]) / s
		q.Y = (m[1][2] + m[2][1]) / s
		q.Z = 0.25 * s
	}

	return q.Normalize()
}

// Normalize returns q scaled to unit length (identity if q is the zero
// quaternion).
func (q Quat) Normalize() Quat {
	n := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if n < 1e-300 {
		return IdentityQuat()
	}

	return Quat{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n}
}

// ToMat3 converts q to an equivalent rotation matrix.
func (q Quat) ToMat3() Mat3 {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return Mat3{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w)},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w)},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y)},
	}
}

// Mul returns q*r (applies r first, then q).
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}
