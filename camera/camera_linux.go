package camera

import (
	"fmt"
	"image"
	"time"

	"golang.org/x/sys/unix"
)

type Camera struct {
	fd      int
	buffers [][]byte
	pix     v4l2PixFormat

	frames    chan Frame
	closed    chan struct{}
	destroyed chan struct{}
}

// Open starts streaming YUYV frames from the device. The driver may
// adjust the requested dimensions; the delivered frames have the
// final size.
func Open(device string, cfg Config) (*Camera, error) {
	cfg = cfg.withDefaults()
	fd, err := unix.Open(device, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("camera: open %s: %w", device, err)
	}
	c := &Camera{
		fd:        fd,
		frames:    make(chan Frame),
		closed:    make(chan struct{}),
		destroyed: make(chan struct{}),
	}
	if err := c.setup(cfg); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("camera: %s: %w", device, err)
	}
	go c.stream()
	return c, nil
}

// Frames delivers captured frames. The channel is closed after an
// error frame or Close.
func (c *Camera) Frames() <-chan Frame {
	return c.frames
}

// Close stops streaming and releases the device.
func (c *Camera) Close() {
	close(c.closed)
	<-c.destroyed
}

func (c *Camera) setup(cfg Config) error {
	caps, err := queryCap(c.fd)
	if err != nil {
		return err
	}
	const need = v4l2CapVideoCapture | v4l2CapStreaming
	if caps&need != need {
		return fmt.Errorf("missing capture capabilities (got %#x)", caps)
	}
	pix, err := setFormat(c.fd, uint32(cfg.Width), uint32(cfg.Height))
	if err != nil {
		return err
	}
	if pix.PixelFormat != pixFmtYUYV {
		return fmt.Errorf("driver rejected YUYV format (got %#x)", pix.PixelFormat)
	}
	c.pix = pix
	if err := setFPS(c.fd, uint32(cfg.FPS)); err != nil {
		return err
	}
	count, err := requestBuffers(c.fd, 4)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("driver returned no buffers")
	}
	for i := uint32(0); i < count; i++ {
		buf, err := mapBuffer(c.fd, i)
		if err != nil {
			return err
		}
		c.buffers = append(c.buffers, buf)
		if err := enqueue(c.fd, i); err != nil {
			return err
		}
	}
	return streamOn(c.fd)
}

func (c *Camera) stream() {
	defer func() {
		streamOff(c.fd)
		for _, buf := range c.buffers {
			unix.Munmap(buf)
		}
		unix.Close(c.fd)
		close(c.frames)
		close(c.destroyed)
	}()
	for {
		select {
		case <-c.closed:
			return
		default:
		}
		ready, err := waitFrame(c.fd, 2)
		if err != nil {
			c.deliver(Frame{Err: err})
			return
		}
		if !ready {
			continue
		}
		idx, used, err := dequeue(c.fd)
		if err != nil {
			c.deliver(Frame{Err: err})
			return
		}
		img := c.convert(c.buffers[idx], used)
		if err := enqueue(c.fd, idx); err != nil {
			c.deliver(Frame{Err: err})
			return
		}
		if img == nil {
			continue
		}
		if !c.deliver(Frame{Image: img}) {
			return
		}
	}
}

func (c *Camera) deliver(f Frame) bool {
	select {
	case c.frames <- f:
		return true
	case <-c.closed:
		return false
	}
}

// convert deinterleaves a packed YUYV buffer into a planar 4:2:2
// YCbCr image. Short buffers are dropped.
func (c *Camera) convert(buf []byte, used uint32) *image.YCbCr {
	w, h := int(c.pix.Width), int(c.pix.Height)
	stride := int(c.pix.BytesPerLine)
	if stride == 0 {
		stride = 2 * w
	}
	if int(used) < stride*h {
		return nil
	}
	img := image.NewYCbCr(image.Rect(0, 0, w, h), image.YCbCrSubsampleRatio422)
	for y := 0; y < h; y++ {
		row := buf[y*stride : y*stride+2*w]
		yoff := y * img.YStride
		coff := y * img.CStride
		for x := 0; x < w/2; x++ {
			img.Y[yoff+2*x] = row[4*x]
			img.Cb[coff+x] = row[4*x+1]
			img.Y[yoff+2*x+1] = row[4*x+2]
			img.Cr[coff+x] = row[4*x+3]
		}
	}
	return img
}

// Snapshot captures a single frame from the device.
func Snapshot(device string, cfg Config, timeout time.Duration) (image.Image, error) {
	c, err := Open(device, cfg)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case f, ok := <-c.Frames():
		if !ok {
			return nil, fmt.Errorf("camera: %s: stream ended", device)
		}
		if f.Err != nil {
			return nil, f.Err
		}
		return f.Image, nil
	case <-timer.C:
		return nil, fmt.Errorf("camera: %s: no frame within %v", device, timeout)
	}
}
