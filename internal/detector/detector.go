// Package detector finds the hand contour in a binary mask.
package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/geometry"
)

// Detector defines the interface for hand contour selection.
type Detector interface {
	// Detect returns the contour most likely to be the hand.
	// ok is false when the mask holds no usable foreground region; that is
	// the normal outcome when no hand is in view, not an error.
	Detect(mask gocv.Mat) (contour geometry.Contour, ok bool)
}

// Config holds configuration options for contour selection.
type Config struct {
	// MinArea is the enclosed area a contour must exceed to be selected.
	MinArea float64 `json:"min_area"`
}

// DefaultConfig returns a Config that accepts any contour enclosing area.
func DefaultConfig() Config {
	return Config{
		MinArea: 0,
	}
}

// ContourSelector implements Detector by tracing every boundary in the
// mask and keeping the one with the largest area.
type ContourSelector struct {
	config Config
}

// NewContourSelector creates a new ContourSelector.
func NewContourSelector(config Config) *ContourSelector {
	if config.MinArea < 0 {
		config.MinArea = 0
	}
	return &ContourSelector{config: config}
}

// Detect traces all boundaries with full hierarchy retrieval and simple
// chain approximation, then selects the largest.
func (s *ContourSelector) Detect(mask gocv.Mat) (geometry.Contour, bool) {
	if mask.Empty() {
		return nil, false
	}

	traced := gocv.FindContours(mask, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer traced.Close()

	contours := make([]geometry.Contour, 0, traced.Size())
	for i := 0; i < traced.Size(); i++ {
		contours = append(contours, geometry.FromImagePoints(traced.At(i).ToPoints()))
	}

	return s.Select(contours)
}

// Select returns the contour with the largest area. Ties go to the contour
// that appears first. Contours with fewer than three points or whose area
// does not exceed MinArea are never selected.
func (s *ContourSelector) Select(contours []geometry.Contour) (geometry.Contour, bool) {
	best := -1
	bestArea := s.config.MinArea

	for i, c := range contours {
		if !c.Valid() {
			continue
		}
		if area := c.Area(); area > bestArea {
			best, bestArea = i, area
		}
	}

	if best < 0 {
		return nil, false
	}
	return contours[best], true
}
