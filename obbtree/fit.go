package obbtree

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/fermat-boruvka/gngp/geom3"
)

// fitTriangle fits an OBB over a single triangle: the longest edge direction
// is axis 0, the triangle normal is axis 2, axis 1 completes the
// right-handed frame; extents come from projecting the three vertices onto
// the resulting axes.
func fitTriangle(a, b, c r3.Vector) (*Tree, error) {
	normal := geom3.TriangleNormal(a, b, c)
	if normal.Norm() < 1e-12 {
		return nil, ErrDegenerateSeed
	}
	axis2 := normal.Normalize()

	edges := [3]struct {
		dir    r3.Vector
		length float64
	}{
		{b.Sub(a), b.Sub(a).Norm()},
		{c.Sub(b), c.Sub(b).Norm()},
		{a.Sub(c), a.Sub(c).Norm()},
	}
	longest := edges[0]
	for _, e := range edges[1:] {
		if e.length > longest.length {
			longest = e
		}
	}
	if longest.length < 1e-12 {
		return nil, ErrDegenerateSeed
	}
	axis0 := longest.dir.Normalize()
	// Re-orthogonalize axis0 against axis2 (it is only exactly perpendicular
	// to the normal when the triangle is planar, which it always is, but
	// guard against floating-point drift before taking the cross product).
	axis0 = axis0.Sub(axis2.Mul(axis0.Dot(axis2))).Normalize()
	axis1 := axis2.Cross(axis0).Normalize()

	return fitAxesToPoints([3]r3.Vector{axis0, axis1, axis2}, []r3.Vector{a, b, c}), nil
}

// fitPoints fits an OBB over an arbitrary point cloud per flags.FitMode.
func fitPoints(points []r3.Vector, flags BuildFlags) (*Tree, error) {
	if len(points) == 0 {
		return nil, ErrEmptyLeafSet
	}

	switch flags.FitMode {
	case FitNaive:
		return fitPointsNaive(points, flags), nil
	default:
		return fitPointsCovariance(points), nil
	}
}

// fitPointsCovariance computes the 3x3 covariance of points, takes its
// eigenvectors as axes, and projects all points onto those axes to derive
// the centre and half-extents.
func fitPointsCovariance(points []r3.Vector) *Tree {
	mean := r3.Vector{}
	for _, p := range points {
		mean = mean.Add(p)
	}
	mean = mean.Mul(1.0 / float64(len(points)))

	var cov geom3.Mat3
	for _, p := range points {
		d := p.Sub(mean)
		arr := [3]float64{d.X, d.Y, d.Z}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				cov[i][j] += arr[i] * arr[j]
			}
		}
	}
	n := float64(len(points))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cov[i][j] /= n
		}
	}

	axes := geom3.EigenAxes(cov)

	return fitAxesToPoints(axes, points)
}

// fitPointsNaive searches NaiveSamples candidate rotations about each of the
// three world axes and keeps the orientation with the smallest resulting
// box volume.
func fitPointsNaive(points []r3.Vector, flags BuildFlags) *Tree {
	samples := flags.NaiveSamples
	if samples <= 0 {
		samples = 5
	}

	var best *Tree
	bestVol := math.Inf(1)
	for _, spin := range [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}} {
		for i := 0; i < samples; i++ {
			theta := math.Pi * float64(i) / float64(samples)
			rot := geom3.RotationFromAxisAngle(spin, theta)
			axes := [3]r3.Vector{rot.Col(0), rot.Col(1), rot.Col(2)}
			cand := fitAxesToPoints(axes, points)
			if v := cand.Volume(); v < bestVol {
				bestVol = v
				best = cand
			}
		}
	}

	return best
}

// fitAxesToPoints projects every point onto the given orthonormal axes and
// returns the tightest box (centre + half-extents) in that orientation.
func fitAxesToPoints(axes [3]r3.Vector, points []r3.Vector) *Tree {
	min := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}

	for _, p := range points {
		for i, ax := range axes {
			proj := p.Dot(ax)
			if proj < min[i] {
				min[i] = proj
			}
			if proj > max[i] {
				max[i] = proj
			}
		}
	}

	center := r3.Vector{}
	he := r3.Vector{}
	extents := [3]float64{}
	for i, ax := range axes {
		mid := (min[i] + max[i]) / 2
		extents[i] = (max[i] - min[i]) / 2
		center = center.Add(ax.Mul(mid))
	}
	he = r3.Vector{X: extents[0], Y: extents[1], Z: extents[2]}

	return &Tree{Center: center, Axes: axes, HalfExtents: he}
}
