// Package segment isolates a hand silhouette from a colour frame as a binary mask.
package segment

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ThresholdMode selects how the binarisation threshold is chosen.
type ThresholdMode string

const (
	// ThresholdAutomatic picks the threshold per frame with Otsu's method.
	ThresholdAutomatic ThresholdMode = "automatic"
	// ThresholdFixed uses Config.FixedThreshold for every frame.
	ThresholdFixed ThresholdMode = "fixed"
)

// Segmentation defaults
const (
	// DefaultBlurKernelSize is the side of the square Gaussian kernel (35x35).
	DefaultBlurKernelSize = 35
	// DefaultFixedThreshold is used in fixed mode.
	DefaultFixedThreshold = 100
	// Foreground is the mask value of hand pixels.
	Foreground = 255
)

var (
	// ErrInvalidFrame is returned when a frame is empty, has zero area or an
	// unsupported number of channels.
	ErrInvalidFrame = errors.New("invalid frame")

	// ErrInvalidConfig is returned when a segmenter configuration is out of range.
	ErrInvalidConfig = errors.New("invalid segmenter config")
)

// Config holds configuration options for segmentation.
type Config struct {
	// BlurKernelSize is the side of the square smoothing kernel. Must be odd and >= 1.
	BlurKernelSize int `json:"blur_kernel_size"`

	// Mode selects fixed or automatic (Otsu) thresholding.
	Mode ThresholdMode `json:"threshold_mode"`

	// FixedThreshold is the intensity cut-off used in fixed mode (0-255).
	FixedThreshold float64 `json:"fixed_threshold"`

	// Invert makes pixels at or below the threshold the foreground, which
	// suits a hand darker than its background.
	Invert bool `json:"invert"`
}

// DefaultConfig returns a Config with a 35x35 blur, inverted Otsu threshold.
func DefaultConfig() Config {
	return Config{
		BlurKernelSize: DefaultBlurKernelSize,
		Mode:           ThresholdAutomatic,
		FixedThreshold: DefaultFixedThreshold,
		Invert:         true,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.BlurKernelSize < 1 || c.BlurKernelSize%2 == 0 {
		return errors.Wrapf(ErrInvalidConfig, "blur kernel size %d must be odd and >= 1", c.BlurKernelSize)
	}
	switch c.Mode {
	case ThresholdAutomatic:
	case ThresholdFixed:
		if c.FixedThreshold < 0 || c.FixedThreshold > 255 {
			return errors.Wrapf(ErrInvalidConfig, "fixed threshold %v outside 0-255", c.FixedThreshold)
		}
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown threshold mode %q", c.Mode)
	}
	return nil
}

// Segmenter converts colour frames into binary hand masks.
// It holds only its configuration and is safe for concurrent use.
type Segmenter struct {
	config Config
}

// New creates a Segmenter with the given configuration.
func New(config Config) (*Segmenter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Segmenter{config: config}, nil
}

// Config returns the segmenter configuration.
func (s *Segmenter) Config() Config {
	return s.config
}

// Segment produces a single-channel mask the size of frame, with hand
// pixels set to Foreground and everything else zero.
// The caller is responsible for closing the returned Mat.
//
// Algorithm:
// 1. Convert frame to grayscale (single-channel input is copied)
// 2. Apply a square Gaussian blur to suppress pixel noise
// 3. Threshold, with Otsu's method in automatic mode, inverted if configured
func (s *Segmenter) Segment(frame gocv.Mat) (gocv.Mat, error) {
	if err := CheckFrame(frame); err != nil {
		return gocv.NewMat(), err
	}

	gray := gocv.NewMat()
	defer gray.Close()

	switch frame.Channels() {
	case 1:
		frame.CopyTo(&gray)
	case 3:
		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	case 4:
		gocv.CvtColor(frame, &gray, gocv.ColorBGRAToGray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := s.config.BlurKernelSize
	gocv.GaussianBlur(gray, &blurred, image.Point{X: k, Y: k}, 0, 0, gocv.BorderDefault)

	typ := gocv.ThresholdBinary
	if s.config.Invert {
		typ = gocv.ThresholdBinaryInv
	}
	if s.config.Mode == ThresholdAutomatic {
		typ |= gocv.ThresholdOtsu
	}

	mask := gocv.NewMat()
	gocv.Threshold(blurred, &mask, float32(s.config.FixedThreshold), Foreground, typ)

	return mask, nil
}

// CheckFrame returns ErrInvalidFrame unless frame is a non-empty 8-bit
// image with one, three or four channels.
func CheckFrame(frame gocv.Mat) error {
	if frame.Empty() {
		return errors.Wrap(ErrInvalidFrame, "frame is empty")
	}
	if frame.Rows() <= 0 || frame.Cols() <= 0 {
		return errors.Wrapf(ErrInvalidFrame, "frame has zero area (%dx%d)", frame.Cols(), frame.Rows())
	}
	switch frame.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
	default:
		return errors.Wrapf(ErrInvalidFrame, "unsupported mat type %v", frame.Type())
	}
	return nil
}
