//go:build !linux

package camera

import (
	"image"
	"time"
)

type Camera struct{}

func Open(device string, cfg Config) (*Camera, error) {
	return nil, ErrUnsupported
}

func (c *Camera) Frames() <-chan Frame { return nil }

func (c *Camera) Close() {}

func Snapshot(device string, cfg Config, timeout time.Duration) (image.Image, error) {
	return nil, ErrUnsupported
}
