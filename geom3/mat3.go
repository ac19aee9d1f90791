package geom3

import (
	"math"

	"github.com/golang/geo/r3"
)

// Mat3 is a row-major 3x3 matrix used for rotations and covariance fits.
type Mat3 [3][3]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// MulVec returns m*v.
func (m Mat3) MulVec(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Mul returns m*n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += m[i][k] * n[k][j]
			}
			out[i][j] = sum
		}
	}

	return out
}

// Transpose returns the transpose of m (equal to the inverse for a proper
// rotation matrix).
func (m Mat3) Transpose() Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[j][i] = m[i][j]
		}
	}

	return out
}

// Col returns column i as a vector.
func (m Mat3) Col(i int) r3.Vector {
	return r3.Vector{X: m[0][i], Y: m[1][i], Z: m[2][i]}
}

// SetCol sets column i to v.
func (m *Mat3) SetCol(i int, v r3.Vector) {
	m[0][i] = v.X
	m[1][i] = v.Y
	m[2][i] = v.Z
}

// RotationFromAxisAngle builds a rotation matrix from a unit axis and an
// angle in radians (Rodrigues' formula).
func RotationFromAxisAngle(axis r3.Vector, angle float64) Mat3 {
	axis = axis.Normalize()
	s, c := math.Sin(angle), math.Cos(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Mat3{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y},
		{t*x*y + s*z, t*y*y + c, t*y*z - s*x},
		{t*x*z - s*y, t*y*z + s*x, t*z*z + c},
	}
}

// RotationFromEuler builds a rotation matrix from intrinsic XYZ Euler angles
// (radians), matching the convention consumed by the CD geom `set_rot`
// surface.
func RotationFromEuler(rx, ry, rz float64) Mat3 {
	return RotationFromAxisAngle(r3.Vector{X: 1}, rx).
		Mul(RotationFromAxisAngle(r3.Vector{Y: 1}, ry)).
		Mul(RotationFromAxisAngle(r3.Vector{Z: 1}, rz))
}

// eigenSymmetric computes the eigenvalues/eigenvectors of a symmetric 3x3
// matrix via cyclic Jacobi rotation. Used to fit covariance-mode OBB axes
//. Converges in a small, bounded number of sweeps for 3x3
// inputs; iteration count is capped defensively.
func eigenSymmetric(a Mat3) (vals [3]float64, vecs Mat3) {
	vecs = Identity3()
	const maxSweeps = 50
	for sweep := 0; sweep < maxSweeps; sweep++ {
		off := math.Abs(a[0][1]) + math.Abs(a[0][2]) + math.Abs(a[1][2])
		if off < 1e-14 {
			break
		}
		for p := 0; p < 2; p++ {
			for q := p + 1; q < 3; q++ {
				if math.Abs(a[p][q]) < 1e-300 {
					continue
				}
				theta := (a[q][q] - a[p][p]) / (2 * a[p][q])
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(1+theta*theta))
				cphi := 1 / math.Sqrt(t*t+1)
				sphi := t * cphi
				app := a[p][p]
				aqq := a[q][q]
				apq := a[p][q]
				a[p][p] = cphi*cphi*app - 2*sphi*cphi*apq + sphi*sphi*aqq
				a[q][q] = sphi*sphi*app + 2*sphi*cphi*apq + cphi*cphi*aqq
				a[p][q] = 0
				a[q][p] = 0
				for i := 0; i < 3; i++ {
					if i != p && i != q {
						aip := a[i][p]
						aiq := a[i][q]
						a[i][p] = cphi*aip - sphi*aiq
						a[p][i] = a[i][p]
						a[i][q] = sphi*aip + cphi*aiq
						a[q][i] = a[i][q]
					}
					vip := vecs[i][p]
					viq := vecs[i][q]
					vecs[i][p] = cphi*vip - sphi*viq
					vecs[i][q] = sphi*vip + cphi*viq
				}
			}
		}
	}
	vals = [3]float64{a[0][0], a[1][1], a[2][2]}

	return vals, vecs
}

// EigenAxes returns the eigenvectors of a symmetric 3x3 matrix as three
// orthonormal axes, ordered by decreasing eigenvalue (largest-variance axis
// first). Used to fit covariance-mode OBB axes.
func EigenAxes(m Mat3) [3]r3.Vector {
	vals, vecs := eigenSymmetric(m)

	order := [3]int{0, 1, 2}
	for i := 0; i < 2; i++ {
		for j := i + 1; j < 3; j++ {
			if vals[order[j]] > vals[order[i]] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	return [3]r3.Vector{vecs.Col(order[0]), vecs.Col(order[1]), vecs.Col(order[2])}
}
