package capture

import (
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/geometry"
)

// DefaultSequence counts up from an empty scene to an open hand.
var DefaultSequence = []int{0, 1, 2, 3, 4, 5}

var (
	syntheticBackground = gocv.NewScalar(235, 235, 235, 0)
	syntheticHand       = color.RGBA{R: 40, G: 40, B: 40, A: 0}
)

// SyntheticCamera renders a dark hand silhouette on a light background.
// It walks through a sequence of finger counts, holding each for a number
// of frames. A count of zero renders an empty scene.
type SyntheticCamera struct {
	width    int
	height   int
	sequence []int
	hold     int
	frame    int
	fps      int
	mu       sync.Mutex
	running  bool
}

// NewSyntheticCamera creates a SyntheticCamera. An empty sequence uses
// DefaultSequence and hold below 1 is treated as 1.
func NewSyntheticCamera(width, height int, sequence []int, hold int) *SyntheticCamera {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if len(sequence) == 0 {
		sequence = DefaultSequence
	}
	if hold < 1 {
		hold = 1
	}
	return &SyntheticCamera{
		width:    width,
		height:   height,
		sequence: append([]int(nil), sequence...),
		hold:     hold,
		fps:      DefaultFPS,
	}
}

func (c *SyntheticCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.frame = 0
	return nil
}

func (c *SyntheticCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

// ReadFrame renders the next frame. The caller must close it.
func (c *SyntheticCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	fingers := c.sequence[(c.frame/c.hold)%len(c.sequence)]
	c.frame++

	mat := Render(c.width, c.height, fingers)
	return &mat, nil
}

// Current returns the finger count shown by the most recently read frame,
// or -1 before the first read.
func (c *SyntheticCamera) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frame == 0 {
		return -1
	}
	return c.sequence[((c.frame-1)/c.hold)%len(c.sequence)]
}

func (c *SyntheticCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = fps
}

func (c *SyntheticCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *SyntheticCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Render draws a width x height BGR frame holding a hand with the given
// number of raised fingers, centred and filling about two thirds of the
// frame height. fingers of zero or less renders only the background.
func Render(width, height, fingers int) gocv.Mat {
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	mat.SetTo(syntheticBackground)

	if fingers <= 0 {
		return mat
	}

	// The silhouette spans an 80x100 unit box.
	scale := min(width*2/3/80, height*2/3/100)
	if scale < 1 {
		scale = 1
	}
	origin := geometry.Point{
		X: (width - 80*scale) / 2,
		Y: (height - 100*scale) / 2,
	}

	hand := geometry.Hand(fingers, scale, origin)
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{hand.ImagePoints()})
	defer pv.Close()
	gocv.FillPoly(&mat, pv, syntheticHand)

	return mat
}
