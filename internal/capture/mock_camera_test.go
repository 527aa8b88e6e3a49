package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestMockCamera_Playback(t *testing.T) {
	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame1, &frame2}, false)

	require.NoError(t, cam.Open())
	defer cam.Close()

	for i := 0; i < 2; i++ {
		f, err := cam.ReadFrame()
		require.NoError(t, err, "frame %d", i)
		f.Close()
	}

	// No loop: playback ends after the last frame.
	_, err := cam.ReadFrame()
	assert.ErrorIs(t, err, ErrNoFrames)
	assert.Equal(t, 2, cam.Reads())
}

func TestMockCamera_Loop(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame}, true)
	require.NoError(t, cam.Open())
	defer cam.Close()

	for i := 0; i < 5; i++ {
		f, err := cam.ReadFrame()
		require.NoError(t, err, "iteration %d", i)
		f.Close()
	}
	assert.Equal(t, 5, cam.Reads())
}

func TestMockCamera_NotOpen(t *testing.T) {
	cam := NewMockCamera(nil, false)

	_, err := cam.ReadFrame()
	assert.ErrorIs(t, err, ErrCameraNotOpen)

	require.NoError(t, cam.Open())
	_, err = cam.ReadFrame()
	assert.ErrorIs(t, err, ErrNoFrames)
}

func TestMockCamera_SetFPS(t *testing.T) {
	cam := NewMockCamera(nil, false)
	assert.Equal(t, DefaultFPS, cam.FPS())

	cam.SetFPS(30)
	assert.Equal(t, 30, cam.FPS())

	cam.SetFPS(0)
	assert.Equal(t, 30, cam.FPS())
}
