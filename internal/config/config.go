// Package config loads mudra settings from defaults, an optional YAML file
// and MUDRA_ environment variables.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/segment"
)

// ErrInvalid is returned when a setting is out of range.
var ErrInvalid = errors.New("invalid configuration")

// File lookup
const (
	// Name is the config file base name searched for when no path is given.
	Name = "mudra"
	// EnvPrefix prefixes environment overrides, e.g. MUDRA_SEGMENT_INVERT.
	EnvPrefix = "MUDRA"
	// DataDir is the directory under the user's home holding mudra state.
	DataDir = ".mudra"
)

// Keys
const (
	KeyBlurKernelSize = "segment.blur_kernel_size"
	KeyThresholdMode  = "segment.threshold_mode"
	KeyFixedThreshold = "segment.fixed_threshold"
	KeyInvert         = "segment.invert"
	KeyMinArea        = "detector.min_area"
	KeyEpsilon        = "defects.epsilon"
	KeyValleyAngle    = "classifier.valley_angle_threshold"
	KeyMaxFingers     = "classifier.max_fingers"
	KeyDeviceID       = "camera.device_id"
	KeyFPS            = "camera.fps"
	KeyWidth          = "camera.width"
	KeyHeight         = "camera.height"
	KeySynthetic      = "camera.synthetic"
	KeyAddr           = "server.addr"
	KeyPreviewWidth   = "server.preview_width"
	KeyStorePath      = "store.path"
	KeyWorkers        = "pipeline.workers"
)

// CameraConfig selects and configures the frame source.
type CameraConfig struct {
	capture.Config `json:"device"`

	// Synthetic replaces the device with rendered hand silhouettes.
	Synthetic bool `json:"synthetic"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string `json:"addr"`
	PreviewWidth int    `json:"preview_width"`
}

// StoreConfig configures the SQLite store.
type StoreConfig struct {
	Path string `json:"path"`
}

// Config is the complete application configuration.
type Config struct {
	Pipeline pipeline.Config `json:"pipeline"`
	Workers  int             `json:"workers"`
	Camera   CameraConfig    `json:"camera"`
	Server   ServerConfig    `json:"server"`
	Store    StoreConfig     `json:"store"`

	// File is the config file that was read, empty when none was found.
	File string `json:"file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

// Load reads configuration. When path is empty, mudra.yaml is searched for
// in the working directory and ~/.mudra; a missing file is not an error.
// An explicit path must exist. Environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, DataDir))
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	cfg := fromViper(v)
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	seg := segment.DefaultConfig()
	v.SetDefault(KeyBlurKernelSize, seg.BlurKernelSize)
	v.SetDefault(KeyThresholdMode, string(seg.Mode))
	v.SetDefault(KeyFixedThreshold, seg.FixedThreshold)
	v.SetDefault(KeyInvert, seg.Invert)

	v.SetDefault(KeyMinArea, detector.DefaultConfig().MinArea)
	v.SetDefault(KeyEpsilon, geometry.DefaultDefectEpsilon)

	cls := gesture.DefaultConfig()
	v.SetDefault(KeyValleyAngle, cls.ValleyAngle)
	v.SetDefault(KeyMaxFingers, cls.MaxFingers)

	cam := capture.DefaultConfig()
	v.SetDefault(KeyDeviceID, cam.DeviceID)
	v.SetDefault(KeyFPS, cam.FPS)
	v.SetDefault(KeyWidth, cam.Width)
	v.SetDefault(KeyHeight, cam.Height)
	v.SetDefault(KeySynthetic, false)

	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeyPreviewWidth, 320)
	v.SetDefault(KeyStorePath, filepath.Join("~", DataDir, "mudra.db"))
	v.SetDefault(KeyWorkers, 1)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Pipeline: pipeline.Config{
			Segment: segment.Config{
				BlurKernelSize: v.GetInt(KeyBlurKernelSize),
				Mode:           segment.ThresholdMode(strings.ToLower(v.GetString(KeyThresholdMode))),
				FixedThreshold: v.GetFloat64(KeyFixedThreshold),
				Invert:         v.GetBool(KeyInvert),
			},
			Detector: detector.Config{
				MinArea: v.GetFloat64(KeyMinArea),
			},
			Classifier: gesture.Config{
				ValleyAngle: v.GetFloat64(KeyValleyAngle),
				MaxFingers:  v.GetInt(KeyMaxFingers),
			},
			Epsilon: v.GetFloat64(KeyEpsilon),
		},
		Workers: v.GetInt(KeyWorkers),
		Camera: CameraConfig{
			Config: capture.Config{
				DeviceID: v.GetInt(KeyDeviceID),
				FPS:      v.GetInt(KeyFPS),
				Width:    v.GetInt(KeyWidth),
				Height:   v.GetInt(KeyHeight),
			},
			Synthetic: v.GetBool(KeySynthetic),
		},
		Server: ServerConfig{
			Addr:         v.GetString(KeyAddr),
			PreviewWidth: v.GetInt(KeyPreviewWidth),
		},
		Store: StoreConfig{
			Path: v.GetString(KeyStorePath),
		},
	}
}

// Validate checks every setting. Errors match both ErrInvalid and, for
// stage settings, the stage's own sentinel.
func (c *Config) Validate() error {
	if err := c.Pipeline.Segment.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.Pipeline.Classifier.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Pipeline.Epsilon < 0 || math.IsNaN(c.Pipeline.Epsilon) {
		return errors.Wrapf(ErrInvalid, "%s %v is negative", KeyEpsilon, c.Pipeline.Epsilon)
	}
	if c.Pipeline.Detector.MinArea < 0 {
		return errors.Wrapf(ErrInvalid, "%s %v is negative", KeyMinArea, c.Pipeline.Detector.MinArea)
	}
	if c.Workers < 1 {
		return errors.Wrapf(ErrInvalid, "%s %d must be at least 1", KeyWorkers, c.Workers)
	}
	if c.Camera.FPS <= 0 {
		return errors.Wrapf(ErrInvalid, "%s %d must be positive", KeyFPS, c.Camera.FPS)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return errors.Wrapf(ErrInvalid, "camera size %dx%d must be positive", c.Camera.Width, c.Camera.Height)
	}
	if c.Server.Addr == "" {
		return errors.Wrapf(ErrInvalid, "%s is empty", KeyAddr)
	}
	if c.Server.PreviewWidth <= 0 {
		return errors.Wrapf(ErrInvalid, "%s %d must be positive", KeyPreviewWidth, c.Server.PreviewWidth)
	}
	if c.Store.Path == "" {
		return errors.Wrapf(ErrInvalid, "%s is empty", KeyStorePath)
	}
	return nil
}

// StorePath returns the store path with a leading ~ expanded to the user's
// home directory.
func (c *Config) StorePath() (string, error) {
	p := c.Store.Path
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve home directory")
	}
	return filepath.Join(home, p[1:]), nil
}
