// Package profile loads named camera profiles, YAML files that bundle
// a capture configuration with detector overrides. Profiles are named
// after the cameras they were tuned for (camera_c920, camera_c505,
// camera_720p).
package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Camera selects the capture device and format.
type Camera struct {
	Device string `mapstructure:"device"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	FPS    int    `mapstructure:"fps"`
}

// Detector overrides detection defaults per camera.
type Detector struct {
	Dictionary              string `mapstructure:"dictionary"`
	AdaptiveThreshConstant  int    `mapstructure:"adaptive_thresh_constant"`
	CornerRefinementWinSize int    `mapstructure:"corner_refinement_win_size"`
}

type Profile struct {
	Camera   Camera   `mapstructure:"camera"`
	Detector Detector `mapstructure:"detector"`
}

// Default is the profile used when none is named and no file exists.
func Default() *Profile {
	return &Profile{
		Camera: Camera{
			Device: "/dev/video0",
			Width:  640,
			Height: 480,
			FPS:    30,
		},
		Detector: Detector{
			Dictionary:              "7x7_50",
			AdaptiveThreshConstant:  7,
			CornerRefinementWinSize: 5,
		},
	}
}

// Load reads the profile name from dir. A ".yaml" suffix on name is
// accepted. A missing profile file yields the defaults when name is
// empty, and an error when a profile was explicitly requested.
// ARUCAM_* environment variables override file values.
func Load(dir, name string) (*Profile, error) {
	explicit := name != ""
	if !explicit {
		name = "arucam"
	}
	name = strings.TrimSuffix(name, ".yaml")

	def := Default()
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("ARUCAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("camera.device", def.Camera.Device)
	v.SetDefault("camera.width", def.Camera.Width)
	v.SetDefault("camera.height", def.Camera.Height)
	v.SetDefault("camera.fps", def.Camera.FPS)
	v.SetDefault("detector.dictionary", def.Detector.Dictionary)
	v.SetDefault("detector.adaptive_thresh_constant", def.Detector.AdaptiveThreshConstant)
	v.SetDefault("detector.corner_refinement_win_size", def.Detector.CornerRefinementWinSize)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
		if explicit {
			return nil, fmt.Errorf("profile %s not found in %s", name, dir)
		}
	}
	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}
	return &p, nil
}
