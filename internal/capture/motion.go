package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion detection tuning. The detector exists to answer one question for
// the presence gate: is anyone in front of the camera? The blur kernel
// smears away sensor noise so an empty room stays quiet, and the pixel
// delta is the per-pixel change that counts as movement at all.
const (
	// DefaultMotionThreshold is the percentage of changed pixels that
	// counts as motion. A patient stepping into frame moves far more
	// than 1% of a 640x480 image; flickering light does not.
	DefaultMotionThreshold = 1.0

	blurKernelSize = 21
	pixelDelta     = 25
)

// MotionDetector compares consecutive frames by differencing and reports
// how much of the image changed. It feeds the PresenceGate; the coaching
// pipeline never reads it directly.
type MotionDetector struct {
	threshold float64
	baseline  gocv.Mat
	primed    bool
	mu        sync.Mutex
}

// NewMotionDetector creates a detector that reports motion when more than
// threshold percent of pixels change between frames. Values at or below
// zero fall back to DefaultMotionThreshold.
func NewMotionDetector(threshold float64) *MotionDetector {
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}
	return &MotionDetector{
		threshold: threshold,
		baseline:  gocv.NewMat(),
	}
}

// flatten reduces a frame to the blurred grayscale the differencing
// operates on. The caller owns the returned Mat.
func flatten(frame *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	gocv.GaussianBlur(gray, &blurred,
		image.Point{X: blurKernelSize, Y: blurKernelSize}, 0, 0, gocv.BorderDefault)
	return blurred
}

// Detect compares the frame against the previous one and returns whether
// enough of the image changed to count as motion, plus the changed-pixel
// percentage. The first frame after construction or Reset only primes the
// baseline and never reports motion.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	flat := flatten(frame)
	defer flat.Close()

	if !m.primed {
		flat.CopyTo(&m.baseline)
		m.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(flat, m.baseline, &diff)

	changed := gocv.NewMat()
	defer changed.Close()
	gocv.Threshold(diff, &changed, pixelDelta, 255, gocv.ThresholdBinary)

	changedPct := float64(gocv.CountNonZero(changed)) /
		float64(changed.Rows()*changed.Cols()) * 100.0

	flat.CopyTo(&m.baseline)

	return changedPct > m.threshold, changedPct
}

// Reset drops the baseline so the next frame primes a fresh one. The
// presence gate resets the detector when a session ends, so stale room
// state from minutes ago cannot masquerade as stillness.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropBaseline()
}

// Close releases the detector's resources. The detector remains usable;
// a later Detect primes a new baseline.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropBaseline()
}

func (m *MotionDetector) dropBaseline() {
	if !m.baseline.Empty() {
		m.baseline.Close()
		m.baseline = gocv.NewMat()
	}
	m.primed = false
}

// SetThreshold replaces the changed-pixel percentage that counts as
// motion. Values at or below zero are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}
