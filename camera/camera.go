// Package camera implements streaming frame capture from V4L2 video
// devices. Frames are copied out of the kernel buffers, so they stay
// valid after the camera is closed.
package camera

import (
	"errors"
	"image"
)

// ErrUnsupported is returned on platforms without V4L2.
var ErrUnsupported = errors.New("camera: compiled without camera support")

// Config selects the capture format. Zero fields pick the defaults.
type Config struct {
	Width  int
	Height int
	FPS    int
}

func (c Config) withDefaults() Config {
	if c.Width == 0 {
		c.Width = 640
	}
	if c.Height == 0 {
		c.Height = 480
	}
	return c
}

// A Frame is one captured image or a capture error. After an error
// frame the channel is closed.
type Frame struct {
	Err   error
	Image image.Image
}

// Dims returns the configured capture size as an image.Point.
func (c Config) Dims() image.Point {
	c = c.withDefaults()
	return image.Pt(c.Width, c.Height)
}
