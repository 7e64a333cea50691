package camera

import (
	"testing"
	"unsafe"
)

func TestIoctlEncoding(t *testing.T) {
	// Request codes as reported by the kernel headers on 64-bit.
	if got := vidiocQueryCap; got != 0x80685600 {
		t.Errorf("VIDIOC_QUERYCAP = %#x, want 0x80685600", got)
	}
	if got := vidiocStreamOn; got != 0x40045612 {
		t.Errorf("VIDIOC_STREAMON = %#x, want 0x40045612", got)
	}
	if got := vidiocDQBuf; got != 0xc0585611 {
		t.Errorf("VIDIOC_DQBUF = %#x, want 0xc0585611", got)
	}
}

func TestStructSizes(t *testing.T) {
	if got := unsafe.Sizeof(v4l2Capability{}); got != 104 {
		t.Errorf("v4l2Capability size %d, want 104", got)
	}
	if got := unsafe.Sizeof(v4l2Format{}); got != 208 {
		t.Errorf("v4l2Format size %d, want 208", got)
	}
	if got := unsafe.Sizeof(v4l2Buffer{}); got != 88 {
		t.Errorf("v4l2Buffer size %d, want 88", got)
	}
	if got := unsafe.Sizeof(v4l2StreamParm{}); got != 204 {
		t.Errorf("v4l2StreamParm size %d, want 204", got)
	}
}

func TestConvertYUYV(t *testing.T) {
	c := &Camera{pix: v4l2PixFormat{Width: 4, Height: 2, BytesPerLine: 8}}
	// Two rows of Y0 Cb Y1 Cr quads with recognizable values.
	buf := []byte{
		10, 100, 11, 200, 12, 101, 13, 201,
		20, 110, 21, 210, 22, 111, 23, 211,
	}
	img := c.convert(buf, uint32(len(buf)))
	if img == nil {
		t.Fatal("frame dropped")
	}
	wantY := []byte{10, 11, 12, 13, 20, 21, 22, 23}
	for i, want := range wantY {
		if img.Y[i] != want {
			t.Errorf("Y[%d] = %d, want %d", i, img.Y[i], want)
		}
	}
	if img.Cb[0] != 100 || img.Cr[0] != 200 || img.Cb[1] != 101 || img.Cr[1] != 201 {
		t.Errorf("row 0 chroma: Cb %v Cr %v", img.Cb[:2], img.Cr[:2])
	}
}

func TestConvertShortBuffer(t *testing.T) {
	c := &Camera{pix: v4l2PixFormat{Width: 4, Height: 2, BytesPerLine: 8}}
	if img := c.convert(make([]byte, 8), 8); img != nil {
		t.Error("short buffer not dropped")
	}
}
