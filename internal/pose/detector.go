package pose

import "gocv.io/x/gocv"

// Detector defines the interface for body pose estimation implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the detected body pose.
	// Returns nil (and no error) if no person is detected in the frame.
	Detect(frame *gocv.Mat) (*Pose, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for pose estimation.
type Config struct {
	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ModelComplexity selects the pose model variant (0, 1 or 2).
	ModelComplexity int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		ModelComplexity: 1,
	}
}
