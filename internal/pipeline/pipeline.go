// Package pipeline chains segmentation, contour selection, hull and defect
// analysis and classification into a single per-frame call.
package pipeline

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/segment"
)

// ErrInvalidConfig is returned when the defect epsilon is out of range.
// Stage configs report their own sentinels.
var ErrInvalidConfig = errors.New("invalid pipeline config")

// Config holds the configuration of every stage.
type Config struct {
	Segment    segment.Config  `json:"segment"`
	Detector   detector.Config `json:"detector"`
	Classifier gesture.Config  `json:"classifier"`

	// Epsilon is the minimum depth, in pixels, for a convexity defect to be kept.
	Epsilon float64 `json:"defect_epsilon"`
}

// DefaultConfig returns the default configuration of every stage.
func DefaultConfig() Config {
	return Config{
		Segment:    segment.DefaultConfig(),
		Detector:   detector.DefaultConfig(),
		Classifier: gesture.DefaultConfig(),
		Epsilon:    geometry.DefaultDefectEpsilon,
	}
}

// Result is the outcome of processing one frame.
type Result struct {
	// Found is false when the frame holds no hand. FingerCount is then zero.
	Found bool `json:"found"`

	gesture.Classification

	Contour geometry.Contour  `json:"contour,omitempty"`
	Hull    []int             `json:"hull,omitempty"`
	Defects []geometry.Defect `json:"defects,omitempty"`

	// Annotated is the rendered copy of the input frame. It is nil for
	// results produced by Analyze.
	Annotated *gocv.Mat `json:"-"`
}

// HullPoints returns the hull polygon in contour coordinates.
func (r *Result) HullPoints() geometry.Contour {
	return geometry.HullPoints(r.Contour, r.Hull)
}

// Close releases the annotated frame, if any.
func (r *Result) Close() error {
	if r == nil || r.Annotated == nil {
		return nil
	}
	err := r.Annotated.Close()
	r.Annotated = nil
	return err
}

// Pipeline processes frames independently. It keeps no state between
// frames, so the same frame always yields the same result, and a single
// Pipeline may be shared by concurrent callers.
type Pipeline struct {
	segmenter  *segment.Segmenter
	detector   detector.Detector
	classifier *gesture.Classifier
	epsilon    float64
}

// New creates a Pipeline, validating every stage configuration.
func New(config Config) (*Pipeline, error) {
	if config.Epsilon < 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "defect epsilon %v is negative", config.Epsilon)
	}

	seg, err := segment.New(config.Segment)
	if err != nil {
		return nil, err
	}
	cls, err := gesture.NewClassifier(config.Classifier)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		segmenter:  seg,
		detector:   detector.NewContourSelector(config.Detector),
		classifier: cls,
		epsilon:    config.Epsilon,
	}, nil
}

// SetDetector replaces the contour selector. It must be called before the
// pipeline is shared.
func (p *Pipeline) SetDetector(d detector.Detector) {
	p.detector = d
}

// Process segments frame, selects the hand contour, classifies it and
// renders the annotated copy. The caller must Close the result.
//
// Only an unusable frame is an error (segment.ErrInvalidFrame). A frame
// without a hand yields Found == false and an unannotated copy.
func (p *Pipeline) Process(frame gocv.Mat) (*Result, error) {
	mask, err := p.segmenter.Segment(frame)
	defer mask.Close()
	if err != nil {
		return nil, err
	}

	r := p.Analyze(mask)

	var annotated gocv.Mat
	if r.Found {
		annotated = gesture.Annotate(frame, r.Contour, r.Hull, r.Classification)
	} else {
		annotated = frame.Clone()
	}
	r.Annotated = &annotated

	return r, nil
}

// Analyze runs contour selection and classification on an existing binary
// mask. The returned result carries no annotated frame.
func (p *Pipeline) Analyze(mask gocv.Mat) *Result {
	contour, ok := p.detector.Detect(mask)
	if !ok {
		return &Result{}
	}

	a := geometry.Analyze(contour, p.epsilon)

	return &Result{
		Found:          true,
		Classification: p.classifier.Classify(contour, a.Defects),
		Contour:        contour,
		Hull:           a.Hull,
		Defects:        a.Defects,
	}
}
