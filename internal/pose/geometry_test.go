package pose

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestDistance3D(t *testing.T) {
	t.Run("identical points have distance 0", func(t *testing.T) {
		p := &Point3D{X: 0.3, Y: 0.7, Z: -0.1}
		if d := Distance3D(p, p); d != 0 {
			t.Errorf("expected distance 0 for identical points, got %f", d)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		a := &Point3D{X: 0.1, Y: 0.2, Z: 0.3}
		b := &Point3D{X: 0.9, Y: 0.5, Z: -0.2}

		if d1, d2 := Distance3D(a, b), Distance3D(b, a); d1 != d2 {
			t.Errorf("expected symmetric distance, got %f and %f", d1, d2)
		}
	})

	t.Run("known distance", func(t *testing.T) {
		a := &Point3D{X: 0, Y: 0, Z: 0}
		b := &Point3D{X: 3, Y: 4, Z: 0}

		if d := Distance3D(a, b); math.Abs(d-5) > epsilon {
			t.Errorf("expected distance 5, got %f", d)
		}
	})

	t.Run("fails closed on nil input", func(t *testing.T) {
		p := &Point3D{X: 0.5, Y: 0.5, Z: 0}

		if d := Distance3D(nil, p); d != MaxDistance {
			t.Errorf("expected MaxDistance for nil first point, got %f", d)
		}
		if d := Distance3D(p, nil); d != MaxDistance {
			t.Errorf("expected MaxDistance for nil second point, got %f", d)
		}
		if d := Distance3D(nil, nil); d != MaxDistance {
			t.Errorf("expected MaxDistance for two nil points, got %f", d)
		}
	})

	t.Run("fails closed on NaN coordinates", func(t *testing.T) {
		a := &Point3D{X: math.NaN(), Y: 0, Z: 0}
		b := &Point3D{X: 0.5, Y: 0.5, Z: 0}

		if d := Distance3D(a, b); d != MaxDistance {
			t.Errorf("expected MaxDistance for NaN input, got %f", d)
		}
	})
}

func TestAngleDegrees(t *testing.T) {
	t.Run("right angle", func(t *testing.T) {
		p1 := &Point3D{X: 1, Y: 0, Z: 0}
		vertex := &Point3D{X: 0, Y: 0, Z: 0}
		p3 := &Point3D{X: 0, Y: 1, Z: 0}

		if a := AngleDegrees(p1, vertex, p3); math.Abs(a-90) > 1e-6 {
			t.Errorf("expected 90 degrees, got %f", a)
		}
	})

	t.Run("straight line is 180", func(t *testing.T) {
		p1 := &Point3D{X: -1, Y: 0, Z: 0}
		vertex := &Point3D{X: 0, Y: 0, Z: 0}
		p3 := &Point3D{X: 1, Y: 0, Z: 0}

		if a := AngleDegrees(p1, vertex, p3); math.Abs(a-180) > 1e-6 {
			t.Errorf("expected 180 degrees, got %f", a)
		}
	})

	t.Run("zero-magnitude vector returns 0", func(t *testing.T) {
		p := &Point3D{X: 0.5, Y: 0.5, Z: 0}
		other := &Point3D{X: 0.8, Y: 0.2, Z: 0}

		// p1 coincides with the vertex, so the first ray has no direction.
		if a := AngleDegrees(p, p, other); a != 0 {
			t.Errorf("expected 0 degrees for degenerate ray, got %f", a)
		}
	})

	t.Run("nil input returns 0", func(t *testing.T) {
		p := &Point3D{X: 0.5, Y: 0.5, Z: 0}

		if a := AngleDegrees(nil, p, p); a != 0 {
			t.Errorf("expected 0 degrees for nil input, got %f", a)
		}
	})

	t.Run("never NaN for near-collinear points", func(t *testing.T) {
		// Floating-point drift can push the cosine just past 1.0; the
		// clamp keeps acos in its domain.
		p1 := &Point3D{X: 1e-8, Y: 1, Z: 0}
		vertex := &Point3D{X: 0, Y: 0, Z: 0}
		p3 := &Point3D{X: -1e-8, Y: 1, Z: 0}

		a := AngleDegrees(p1, vertex, p3)
		if math.IsNaN(a) {
			t.Error("angle must not be NaN for near-collinear points")
		}
	})
}

func TestFromPoints(t *testing.T) {
	t.Run("rejects short landmark slices", func(t *testing.T) {
		points := make([]Point3D, MinLandmarks-1)
		if p := FromPoints(points); p != nil {
			t.Errorf("expected nil pose for %d landmarks", len(points))
		}
	})

	t.Run("accepts partial landmark sets", func(t *testing.T) {
		points := make([]Point3D, MinLandmarks)
		points[RightWrist] = Point3D{X: 0.4, Y: 0.6, Z: 0}

		p := FromPoints(points)
		if p == nil {
			t.Fatal("expected valid pose")
		}
		if p.Count != MinLandmarks {
			t.Errorf("expected count %d, got %d", MinLandmarks, p.Count)
		}
		if lm := p.Landmark(RightWrist); lm == nil || lm.X != 0.4 {
			t.Errorf("expected right wrist to be preserved, got %v", lm)
		}
	})

	t.Run("landmark beyond count is nil", func(t *testing.T) {
		points := make([]Point3D, MinLandmarks)
		p := FromPoints(points)

		if lm := p.Landmark(RightHip); lm != nil {
			t.Errorf("expected nil for undelivered landmark, got %v", lm)
		}
	})

	t.Run("truncates oversized slices", func(t *testing.T) {
		points := make([]Point3D, NumLandmarks+5)
		p := FromPoints(points)

		if p.Count != NumLandmarks {
			t.Errorf("expected count %d, got %d", NumLandmarks, p.Count)
		}
	})
}
