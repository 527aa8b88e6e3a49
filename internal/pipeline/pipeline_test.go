package pipeline

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/segment"
)

// handFrame renders a dark hand silhouette with the given number of
// fingers on a white 640x480 BGR frame.
func handFrame(t *testing.T, fingers int) gocv.Mat {
	t.Helper()
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	frame.SetTo(gocv.NewScalar(255, 255, 255, 0))

	c := geometry.Hand(fingers, 4, geometry.Point{X: 150, Y: 40})
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{c.ImagePoints()})
	defer pv.Close()
	gocv.FillPoly(&frame, pv, color.RGBA{0, 0, 0, 0})
	return frame
}

func whiteFrame() gocv.Mat {
	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	frame.SetTo(gocv.NewScalar(255, 255, 255, 0))
	return frame
}

func smallBlurConfig() Config {
	cfg := DefaultConfig()
	cfg.Segment.BlurKernelSize = 5
	return cfg
}

func newPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	p, err := New(cfg)
	require.NoError(t, err)
	return p
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "negative epsilon", mutate: func(c *Config) { c.Epsilon = -1 }, wantErr: ErrInvalidConfig},
		{name: "even blur kernel", mutate: func(c *Config) { c.Segment.BlurKernelSize = 4 }, wantErr: segment.ErrInvalidConfig},
		{name: "zero valley angle", mutate: func(c *Config) { c.Classifier.ValleyAngle = 0 }, wantErr: gesture.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPipeline_Process_FingerCounts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	p := newPipeline(t, smallBlurConfig())

	for fingers := 1; fingers <= 5; fingers++ {
		frame := handFrame(t, fingers)

		r, err := p.Process(frame)
		require.NoError(t, err)

		assert.True(t, r.Found)
		assert.Equal(t, fingers, r.FingerCount, "fingers=%d", fingers)
		assert.Len(t, r.Valleys, fingers-1)
		assert.NotEmpty(t, r.HullPoints())
		require.NotNil(t, r.Annotated)
		assert.Equal(t, frame.Rows(), r.Annotated.Rows())

		r.Close()
		frame.Close()
	}
}

func TestPipeline_Process_DefaultBlur(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	p := newPipeline(t, DefaultConfig())

	frame := handFrame(t, 5)
	defer frame.Close()

	r, err := p.Process(frame)
	require.NoError(t, err)
	defer r.Close()

	assert.True(t, r.Found)
	assert.Equal(t, 5, r.FingerCount)
}

func TestPipeline_Process_NoHand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	modes := map[string]Config{
		"automatic": DefaultConfig(),
		"fixed": func() Config {
			c := DefaultConfig()
			c.Segment.Mode = segment.ThresholdFixed
			return c
		}(),
	}

	for name, cfg := range modes {
		t.Run(name, func(t *testing.T) {
			p := newPipeline(t, cfg)

			frame := whiteFrame()
			defer frame.Close()

			r, err := p.Process(frame)
			require.NoError(t, err)
			defer r.Close()

			assert.False(t, r.Found)
			assert.Zero(t, r.FingerCount)
			assert.Empty(t, r.Contour)
			assert.Empty(t, r.Valleys)

			// The unannotated copy matches the input.
			require.NotNil(t, r.Annotated)
			diff := gocv.NewMat()
			defer diff.Close()
			gocv.AbsDiff(frame, *r.Annotated, &diff)
			gray := gocv.NewMat()
			defer gray.Close()
			gocv.CvtColor(diff, &gray, gocv.ColorBGRToGray)
			assert.Zero(t, gocv.CountNonZero(gray))
		})
	}
}

func TestPipeline_Process_InvalidFrame(t *testing.T) {
	p := newPipeline(t, DefaultConfig())

	frame := gocv.NewMat()
	defer frame.Close()

	r, err := p.Process(frame)
	assert.ErrorIs(t, err, segment.ErrInvalidFrame)
	assert.Nil(t, r)
}

func TestPipeline_Process_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	p := newPipeline(t, smallBlurConfig())

	frame := handFrame(t, 4)
	defer frame.Close()

	first, err := p.Process(frame)
	require.NoError(t, err)
	defer first.Close()

	second, err := p.Process(frame)
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, first.FingerCount, second.FingerCount)
	assert.Equal(t, first.Contour, second.Contour)
	assert.Equal(t, first.Hull, second.Hull)
	assert.Equal(t, first.Defects, second.Defects)
	assert.Equal(t, first.Valleys, second.Valleys)
}

func TestPipeline_Analyze_WithMockDetector(t *testing.T) {
	p := newPipeline(t, DefaultConfig())
	mock := detector.NewMockDetector()
	p.SetDetector(mock)

	mask := gocv.NewMat()
	defer mask.Close()

	r := p.Analyze(mask)
	assert.False(t, r.Found)
	assert.Nil(t, r.Annotated)

	mock.SetContour(detector.OpenHandContour())
	r = p.Analyze(mask)
	assert.True(t, r.Found)
	assert.Equal(t, 5, r.FingerCount)
	assert.Len(t, r.Defects, 4)
	assert.Nil(t, r.Annotated)
	assert.NoError(t, r.Close())

	mock.SetContour(detector.PointingContour())
	r = p.Analyze(mask)
	assert.Equal(t, 1, r.FingerCount)

	assert.Equal(t, 3, mock.Calls())
}

func TestPipeline_Analyze_ClampedCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Classifier.MaxFingers = 3
	p := newPipeline(t, cfg)

	mock := detector.NewMockDetector()
	mock.SetContour(detector.OpenHandContour())
	p.SetDetector(mock)

	mask := gocv.NewMat()
	defer mask.Close()

	r := p.Analyze(mask)
	assert.Equal(t, 3, r.FingerCount)
	assert.Len(t, r.Valleys, 4)
}

func TestResult_CloseNil(t *testing.T) {
	var r *Result
	assert.NoError(t, r.Close())
	assert.NoError(t, (&Result{}).Close())
}
