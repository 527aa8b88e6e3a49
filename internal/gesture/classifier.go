// Package gesture turns convexity defects of a hand contour into a finger count.
package gesture

import (
	"math"

	"github.com/pkg/errors"

	"github.com/ayusman/mudra/internal/geometry"
)

// DefaultValleyAngle is the widest angle, in radians, that still separates
// two raised fingers.
const DefaultValleyAngle = math.Pi / 2

// ErrInvalidConfig is returned when a classifier configuration is out of range.
var ErrInvalidConfig = errors.New("invalid classifier config")

// Config holds configuration options for the classifier.
type Config struct {
	// ValleyAngle is the inclusive upper bound on the angle at a defect's
	// far point for it to count as a finger valley.
	ValleyAngle float64 `json:"valley_angle_threshold"`

	// MaxFingers clamps the reported count. Zero leaves it unclamped.
	MaxFingers int `json:"max_fingers"`
}

// DefaultConfig returns the classifier defaults: a right-angle threshold and
// no clamp.
func DefaultConfig() Config {
	return Config{
		ValleyAngle: DefaultValleyAngle,
		MaxFingers:  0,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if math.IsNaN(c.ValleyAngle) || c.ValleyAngle <= 0 || c.ValleyAngle > math.Pi {
		return errors.Wrapf(ErrInvalidConfig, "valley angle %v outside (0, pi]", c.ValleyAngle)
	}
	if c.MaxFingers < 0 {
		return errors.Wrapf(ErrInvalidConfig, "max fingers %d is negative", c.MaxFingers)
	}
	return nil
}

// Valley is a defect classified as the gap between two raised fingers.
type Valley struct {
	Defect geometry.Defect `json:"defect"`
	Far    geometry.Point  `json:"far"`
	Angle  float64         `json:"angle"`
}

// Classification is the outcome of scoring one contour's defects.
type Classification struct {
	FingerCount int      `json:"finger_count"`
	Valleys     []Valley `json:"valleys"`

	// Degenerate counts defects skipped because their triangle had a
	// zero-length side.
	Degenerate int `json:"degenerate"`
}

// Classifier scores defects by the angle they subtend.
// It holds no state between calls and is safe for concurrent use.
type Classifier struct {
	config Config
}

// NewClassifier creates a Classifier with the given configuration.
func NewClassifier(config Config) (*Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{config: config}, nil
}

// Config returns the classifier configuration.
func (c *Classifier) Config() Config {
	return c.config
}

// Classify counts finger valleys among defects and returns the finger count.
//
// For each defect the triangle (start, end, far) is formed and the angle at
// far is derived with the law of cosines. A defect is a valley when that
// angle is at most the configured threshold. The count is the number of
// valleys plus one for the outermost finger, which has no valley on one
// side. Defects with out-of-range indices or a zero-length side are skipped.
func (c *Classifier) Classify(contour geometry.Contour, defects []geometry.Defect) Classification {
	result := Classification{}

	for _, d := range defects {
		if !inRange(contour, d.Start) || !inRange(contour, d.End) || !inRange(contour, d.Far) {
			result.Degenerate++
			continue
		}

		start, end, far := contour[d.Start], contour[d.End], contour[d.Far]

		angle, ok := FarAngle(start, end, far)
		if !ok {
			result.Degenerate++
			continue
		}

		if angle <= c.config.ValleyAngle {
			result.Valleys = append(result.Valleys, Valley{
				Defect: d,
				Far:    far,
				Angle:  angle,
			})
		}
	}

	result.FingerCount = len(result.Valleys) + 1
	if c.config.MaxFingers > 0 && result.FingerCount > c.config.MaxFingers {
		result.FingerCount = c.config.MaxFingers
	}

	return result
}

// FarAngle returns the interior angle at far of the triangle
// (start, end, far). ok is false when either side meeting at far has zero
// length.
func FarAngle(start, end, far geometry.Point) (angle float64, ok bool) {
	a2 := geometry.DistanceSquared(start, end)
	b2 := geometry.DistanceSquared(start, far)
	c2 := geometry.DistanceSquared(end, far)

	if b2 == 0 || c2 == 0 {
		return 0, false
	}

	cos := (b2 + c2 - a2) / (2 * math.Sqrt(b2) * math.Sqrt(c2))
	// Rounding can push the ratio just past the domain of acos.
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos), true
}

func inRange(c geometry.Contour, i int) bool {
	return i >= 0 && i < len(c)
}
