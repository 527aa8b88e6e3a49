// Package capture acquires colour frames for the finger counting pipeline.
package capture

import (
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultFPS    = 15
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when reading from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")

	// ErrNoFrames is returned when a camera has nothing left to deliver.
	ErrNoFrames = errors.New("no frames available")
)

// Camera defines the interface for frame sources.
// Frames are 8-bit BGR; the caller closes every frame it reads.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// Config holds configuration options for a capture device.
type Config struct {
	DeviceID int `json:"device_id"`
	FPS      int `json:"fps"`
	Width    int `json:"width"`
	Height   int `json:"height"`
}

// DefaultConfig returns the settings for the first attached camera at 640x480.
func DefaultConfig() Config {
	return Config{
		DeviceID: 0,
		FPS:      DefaultFPS,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
	}
}

// deviceCamera reads frames from a local capture device using GoCV.
type deviceCamera struct {
	config  Config
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
}

// NewCamera creates a Camera for a local capture device. Non-positive
// settings fall back to their defaults.
func NewCamera(config Config) Camera {
	def := DefaultConfig()
	if config.FPS <= 0 {
		config.FPS = def.FPS
	}
	if config.Width <= 0 {
		config.Width = def.Width
	}
	if config.Height <= 0 {
		config.Height = def.Height
	}
	return &deviceCamera{config: config}
}

// Open opens the device and requests the configured resolution and frame rate.
func (c *deviceCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.config.DeviceID)
	if err != nil {
		return errors.Wrapf(err, "open capture device %d", c.config.DeviceID)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.config.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.config.Height))
	capture.Set(gocv.VideoCaptureFPS, float64(c.config.FPS))

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the device and releases resources.
func (c *deviceCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the device.
// The caller is responsible for closing the returned Mat.
func (c *deviceCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.Errorf("read from capture device %d failed", c.config.DeviceID)
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.Wrap(ErrNoFrames, "captured frame is empty")
	}

	return &mat, nil
}

// SetFPS sets the requested frame rate. Values less than or equal to 0 are ignored.
func (c *deviceCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.config.FPS = fps

	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the requested frame rate.
func (c *deviceCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.config.FPS
}

// IsOpen returns true if the device is open.
func (c *deviceCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
