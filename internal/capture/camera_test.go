package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantFPS int
	}{
		{name: "defaults", config: DefaultConfig(), wantFPS: DefaultFPS},
		{name: "zero fps falls back", config: Config{DeviceID: 1}, wantFPS: DefaultFPS},
		{name: "negative fps falls back", config: Config{DeviceID: 2, FPS: -4}, wantFPS: DefaultFPS},
		{name: "explicit fps", config: Config{FPS: 30}, wantFPS: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.config)
			require.NotNil(t, cam)

			assert.Equal(t, tt.wantFPS, cam.FPS())
			assert.False(t, cam.IsOpen(), "camera should not be running initially")
		})
	}
}

func TestNewCamera_FillsResolution(t *testing.T) {
	cam := NewCamera(Config{}).(*deviceCamera)

	assert.Equal(t, DefaultWidth, cam.config.Width)
	assert.Equal(t, DefaultHeight, cam.config.Height)
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{name: "set to 10", fps: 10, wantFPS: 10},
		{name: "set to 1", fps: 1, wantFPS: 1},
		{name: "set to 0 should keep previous", fps: 0, wantFPS: 1},
		{name: "set to negative should keep previous", fps: -5, wantFPS: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)
			assert.Equal(t, tt.wantFPS, cam.FPS())
		})
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(DefaultConfig())

	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}
	assert.True(t, cam.IsOpen())

	mat, err := cam.ReadFrame()
	if err != nil {
		cam.Close()
		t.Skipf("skipping test - camera opened but delivered no frame: %v", err)
	}
	require.NotNil(t, mat)
	assert.False(t, mat.Empty())
	mat.Close()

	assert.NoError(t, cam.Close())
	assert.False(t, cam.IsOpen())
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	mat, err := cam.ReadFrame()
	assert.ErrorIs(t, err, ErrCameraNotOpen)
	assert.Nil(t, mat)
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	assert.NoError(t, cam.Close())
}
