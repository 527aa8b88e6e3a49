package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/geometry"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the selected contour.
type MockDetector struct {
	contour geometry.Contour
	calls   int
}

// NewMockDetector creates a new MockDetector that finds no hand.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetContour sets the contour that will be returned by Detect.
// A nil contour makes Detect report no hand.
func (m *MockDetector) SetContour(c geometry.Contour) {
	m.contour = c
}

// Detect returns the pre-configured contour.
func (m *MockDetector) Detect(mask gocv.Mat) (geometry.Contour, bool) {
	m.calls++
	if m.contour == nil {
		return nil, false
	}
	return m.contour, true
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	return m.calls
}

// OpenHandContour returns a preset contour of an open hand with five raised fingers.
func OpenHandContour() geometry.Contour {
	return geometry.Hand(5, 3, geometry.Point{X: 100, Y: 60})
}

// PointingContour returns a preset contour of a hand with a single raised finger.
func PointingContour() geometry.Contour {
	return geometry.Hand(1, 3, geometry.Point{X: 100, Y: 60})
}
