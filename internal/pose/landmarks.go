// Package pose provides body pose detection interfaces and landmark types
// for the physioapp exercise coaching system.
package pose

// Body landmark indices for the 33-point full-body pose model.
// Only the upper-body joints used by the coaching engine are named here;
// the remaining indices (face, legs, feet) are carried through untouched.
const (
	Nose          = 0
	RightShoulder = 11
	LeftShoulder  = 12
	RightElbow    = 13
	LeftElbow     = 14
	RightWrist    = 15
	LeftWrist     = 16
	RightHip      = 23
	LeftHip       = 24
	NumLandmarks  = 33

	// MinLandmarks is the smallest landmark count the engine will accept.
	// The floor guarantees the indices through RightWrist; joints past it
	// (left wrist, hips) may still be absent and degrade through the
	// usable-joint check rather than a hard reject.
	MinLandmarks = 16
)

// Point3D represents a 3D point in normalized image space.
// X and Y are in [0,1] relative to the frame (Y grows downward),
// Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pose represents one full-body landmark set from a single estimation tick.
type Pose struct {
	Points [NumLandmarks]Point3D `json:"points"`
	// Count is the number of landmarks actually delivered by the
	// estimator. Indices at or beyond Count hold zero values.
	Count int     `json:"count"`
	Score float64 `json:"score"`
}

// FromPoints builds a Pose from a landmark slice, validating length once
// at the boundary. Returns nil if fewer than MinLandmarks are present.
func FromPoints(points []Point3D) *Pose {
	if len(points) < MinLandmarks {
		return nil
	}

	p := &Pose{Count: len(points)}
	if p.Count > NumLandmarks {
		p.Count = NumLandmarks
	}
	copy(p.Points[:], points[:p.Count])
	return p
}

// Landmark returns a pointer to the landmark at the given index, or nil if
// the index was not delivered by the estimator. The returned pointer is
// read-only by convention; poses are never mutated after construction.
func (p *Pose) Landmark(index int) *Point3D {
	if p == nil || index < 0 || index >= p.Count {
		return nil
	}
	return &p.Points[index]
}
