package pose

import "math"

// MaxDistance is the sentinel returned by Distance3D for missing or
// malformed input. In normalized image space no meaningful joint pair is
// ever this far apart, so callers degrade to "no match" instead of failing.
const MaxDistance = 1.0

// Distance3D calculates the Euclidean distance between two 3D points.
// Fails closed: nil or non-finite input yields MaxDistance rather than
// an error, so per-tick scoring never has to handle a geometry failure.
func Distance3D(a, b *Point3D) float64 {
	if a == nil || b == nil {
		return MaxDistance
	}

	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z

	d := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return MaxDistance
	}
	return d
}

// AngleDegrees returns the angle at vertex p2 formed by the rays toward p1
// and p3, in degrees. The cosine is clamped to [-1,1] before acos so that
// floating-point drift never produces NaN. Returns 0 if either ray has zero
// magnitude or any point is missing.
func AngleDegrees(p1, p2, p3 *Point3D) float64 {
	if p1 == nil || p2 == nil || p3 == nil {
		return 0
	}

	v1x, v1y, v1z := p1.X-p2.X, p1.Y-p2.Y, p1.Z-p2.Z
	v2x, v2y, v2z := p3.X-p2.X, p3.Y-p2.Y, p3.Z-p2.Z

	mag1 := math.Sqrt(v1x*v1x + v1y*v1y + v1z*v1z)
	mag2 := math.Sqrt(v2x*v2x + v2y*v2y + v2z*v2z)

	if mag1 < 1e-10 || mag2 < 1e-10 {
		return 0
	}

	cos := (v1x*v2x + v1y*v2y + v1z*v2z) / (mag1 * mag2)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	return math.Acos(cos) * 180 / math.Pi
}
