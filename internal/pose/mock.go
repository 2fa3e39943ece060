package pose

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	pose *Pose
	err  error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetPose sets the pose that will be returned by Detect.
// Pass nil to simulate "no person in frame".
func (m *MockDetector) SetPose(p *Pose) {
	m.pose = p
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured pose or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Pose, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pose, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// StandingPose returns a preset Pose of a person standing at rest,
// arms hanging beside the hips.
func StandingPose() *Pose {
	p := basePose()
	p.Points[RightWrist] = Point3D{X: 0.38, Y: 0.62, Z: 0.0}
	p.Points[LeftWrist] = Point3D{X: 0.62, Y: 0.62, Z: 0.0}
	p.Points[RightElbow] = Point3D{X: 0.38, Y: 0.48, Z: 0.0}
	p.Points[LeftElbow] = Point3D{X: 0.62, Y: 0.48, Z: 0.0}
	return p
}

// RightArmRaisedPose returns a preset Pose with the right arm raised
// straight overhead, the end posture of a lateral raise.
func RightArmRaisedPose() *Pose {
	p := basePose()
	p.Points[RightWrist] = Point3D{X: 0.40, Y: 0.12, Z: 0.0}
	p.Points[RightElbow] = Point3D{X: 0.40, Y: 0.24, Z: 0.0}
	p.Points[LeftWrist] = Point3D{X: 0.62, Y: 0.62, Z: 0.0}
	p.Points[LeftElbow] = Point3D{X: 0.62, Y: 0.48, Z: 0.0}
	return p
}

// RightArmMidRaisePose returns a preset Pose with the right arm halfway
// between rest and fully raised.
func RightArmMidRaisePose() *Pose {
	p := basePose()
	p.Points[RightWrist] = Point3D{X: 0.36, Y: 0.36, Z: 0.0}
	p.Points[RightElbow] = Point3D{X: 0.37, Y: 0.42, Z: 0.0}
	p.Points[LeftWrist] = Point3D{X: 0.62, Y: 0.62, Z: 0.0}
	p.Points[LeftElbow] = Point3D{X: 0.62, Y: 0.48, Z: 0.0}
	return p
}

// basePose fills in the torso landmarks shared by the preset poses:
// shoulders level at y=0.35, hips level at y=0.60, centered horizontally.
func basePose() *Pose {
	p := &Pose{Count: NumLandmarks, Score: 0.95}
	p.Points[Nose] = Point3D{X: 0.50, Y: 0.20, Z: 0.0}
	p.Points[RightShoulder] = Point3D{X: 0.40, Y: 0.35, Z: 0.0}
	p.Points[LeftShoulder] = Point3D{X: 0.60, Y: 0.35, Z: 0.0}
	p.Points[RightHip] = Point3D{X: 0.43, Y: 0.60, Z: 0.0}
	p.Points[LeftHip] = Point3D{X: 0.57, Y: 0.60, Z: 0.0}
	return p
}
