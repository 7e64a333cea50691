package camera

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// V4L2 constants, from linux/videodev2.h.
const (
	v4l2CapVideoCapture = 0x00000001
	v4l2CapStreaming    = 0x04000000
	v4l2CapDeviceCaps   = 0x80000000

	v4l2BufTypeVideoCapture = 1
	v4l2MemoryMmap          = 1
	v4l2FieldNone           = 1

	// 'YUYV' little endian.
	pixFmtYUYV = 0x56595559
)

// ioctl request encoding, linux/ioctl.h.
const (
	iocWrite uintptr = 1
	iocRead  uintptr = 2
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | typ<<8 | nr
}

var (
	vidiocQueryCap  = ioc(iocRead, 'V', 0, unsafe.Sizeof(v4l2Capability{}))
	vidiocSFmt      = ioc(iocRead|iocWrite, 'V', 5, unsafe.Sizeof(v4l2Format{}))
	vidiocReqBufs   = ioc(iocRead|iocWrite, 'V', 8, unsafe.Sizeof(v4l2RequestBuffers{}))
	vidiocQueryBuf  = ioc(iocRead|iocWrite, 'V', 9, unsafe.Sizeof(v4l2Buffer{}))
	vidiocQBuf      = ioc(iocRead|iocWrite, 'V', 15, unsafe.Sizeof(v4l2Buffer{}))
	vidiocDQBuf     = ioc(iocRead|iocWrite, 'V', 17, unsafe.Sizeof(v4l2Buffer{}))
	vidiocStreamOn  = ioc(iocWrite, 'V', 18, 4)
	vidiocStreamOff = ioc(iocWrite, 'V', 19, 4)
	vidiocSParm     = ioc(iocRead|iocWrite, 'V', 22, unsafe.Sizeof(v4l2StreamParm{}))
)

type v4l2Capability struct {
	driver       [16]uint8
	card         [32]uint8
	busInfo      [32]uint8
	version      uint32
	capabilities uint32
	deviceCaps   uint32
	reserved     [3]uint32
}

type v4l2PixFormat struct {
	Width        uint32
	Height       uint32
	PixelFormat  uint32
	Field        uint32
	BytesPerLine uint32
	SizeImage    uint32
	Colorspace   uint32
	Priv         uint32
	Flags        uint32
	YcbcrEnc     uint32
	Quantization uint32
	XferFunc     uint32
}

// The kernel's v4l2_format union is 200 bytes plus a pointer-sized
// alignment member.
type v4l2FormatUnion struct {
	data [200 - unsafe.Sizeof(unsafe.Pointer(nil))]byte
	_    unsafe.Pointer
}

type v4l2Format struct {
	typ   uint32
	union v4l2FormatUnion
}

type v4l2RequestBuffers struct {
	count    uint32
	typ      uint32
	memory   uint32
	reserved [2]uint32
}

type v4l2Timecode struct {
	typ      uint32
	flags    uint32
	frames   uint8
	seconds  uint8
	minutes  uint8
	hours    uint8
	userbits [4]uint8
}

type v4l2Buffer struct {
	index     uint32
	typ       uint32
	bytesused uint32
	flags     uint32
	field     uint32
	timestamp unix.Timeval
	timecode  v4l2Timecode
	sequence  uint32
	memory    uint32
	union     [unsafe.Sizeof(unsafe.Pointer(nil))]uint8
	length    uint32
	reserved2 uint32
	reserved  uint32
}

type v4l2Fract struct {
	Numerator   uint32
	Denominator uint32
}

type v4l2CaptureParm struct {
	Capability   uint32
	CaptureMode  uint32
	TimePerFrame v4l2Fract
	ExtendedMode uint32
	ReadBuffers  uint32
	Reserved     [4]uint32
}

type v4l2StreamParm struct {
	typ   uint32
	union [200]byte
}

var nativeOrder = func() binary.ByteOrder {
	var i uint16 = 1
	if *(*byte)(unsafe.Pointer(&i)) == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}()

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
		switch errno {
		case 0:
			return nil
		case unix.EINTR:
			continue
		default:
			return errno
		}
	}
}

func queryCap(fd int) (uint32, error) {
	var caps v4l2Capability
	if err := ioctl(fd, vidiocQueryCap, unsafe.Pointer(&caps)); err != nil {
		return 0, fmt.Errorf("VIDIOC_QUERYCAP: %w", err)
	}
	got := caps.capabilities
	if got&v4l2CapDeviceCaps != 0 {
		got = caps.deviceCaps
	}
	return got, nil
}

// setFormat negotiates a YUYV capture format and returns what the
// driver actually configured.
func setFormat(fd int, width, height uint32) (v4l2PixFormat, error) {
	format := v4l2Format{typ: v4l2BufTypeVideoCapture}
	pix := v4l2PixFormat{
		Width:       width,
		Height:      height,
		PixelFormat: pixFmtYUYV,
		Field:       v4l2FieldNone,
	}
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, nativeOrder, pix); err != nil {
		return pix, err
	}
	copy(format.union.data[:], buf.Bytes())
	if err := ioctl(fd, vidiocSFmt, unsafe.Pointer(&format)); err != nil {
		return pix, fmt.Errorf("VIDIOC_S_FMT: %w", err)
	}
	if err := binary.Read(bytes.NewReader(format.union.data[:]), nativeOrder, &pix); err != nil {
		return pix, err
	}
	return pix, nil
}

func setFPS(fd int, fps uint32) error {
	if fps == 0 {
		return nil
	}
	parm := v4l2StreamParm{typ: v4l2BufTypeVideoCapture}
	capture := v4l2CaptureParm{
		TimePerFrame: v4l2Fract{Numerator: 1, Denominator: fps},
	}
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, nativeOrder, capture); err != nil {
		return err
	}
	copy(parm.union[:], buf.Bytes())
	if err := ioctl(fd, vidiocSParm, unsafe.Pointer(&parm)); err != nil {
		return fmt.Errorf("VIDIOC_S_PARM: %w", err)
	}
	return nil
}

func requestBuffers(fd int, count uint32) (uint32, error) {
	req := v4l2RequestBuffers{
		count:  count,
		typ:    v4l2BufTypeVideoCapture,
		memory: v4l2MemoryMmap,
	}
	if err := ioctl(fd, vidiocReqBufs, unsafe.Pointer(&req)); err != nil {
		return 0, fmt.Errorf("VIDIOC_REQBUFS: %w", err)
	}
	return req.count, nil
}

func mapBuffer(fd int, index uint32) ([]byte, error) {
	buf := v4l2Buffer{
		typ:    v4l2BufTypeVideoCapture,
		memory: v4l2MemoryMmap,
		index:  index,
	}
	if err := ioctl(fd, vidiocQueryBuf, unsafe.Pointer(&buf)); err != nil {
		return nil, fmt.Errorf("VIDIOC_QUERYBUF: %w", err)
	}
	var offset uint32
	if err := binary.Read(bytes.NewReader(buf.union[:]), nativeOrder, &offset); err != nil {
		return nil, err
	}
	b, err := unix.Mmap(fd, int64(offset), int(buf.length), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap of v4l2 buffer %d: %w", index, err)
	}
	return b, nil
}

func enqueue(fd int, index uint32) error {
	buf := v4l2Buffer{
		typ:    v4l2BufTypeVideoCapture,
		memory: v4l2MemoryMmap,
		index:  index,
	}
	if err := ioctl(fd, vidiocQBuf, unsafe.Pointer(&buf)); err != nil {
		return fmt.Errorf("VIDIOC_QBUF: %w", err)
	}
	return nil
}

func dequeue(fd int) (index, bytesused uint32, err error) {
	buf := v4l2Buffer{
		typ:    v4l2BufTypeVideoCapture,
		memory: v4l2MemoryMmap,
	}
	if err := ioctl(fd, vidiocDQBuf, unsafe.Pointer(&buf)); err != nil {
		return 0, 0, fmt.Errorf("VIDIOC_DQBUF: %w", err)
	}
	return buf.index, buf.bytesused, nil
}

func streamOn(fd int) error {
	typ := uint32(v4l2BufTypeVideoCapture)
	if err := ioctl(fd, vidiocStreamOn, unsafe.Pointer(&typ)); err != nil {
		return fmt.Errorf("VIDIOC_STREAMON: %w", err)
	}
	return nil
}

func streamOff(fd int) error {
	typ := uint32(v4l2BufTypeVideoCapture)
	if err := ioctl(fd, vidiocStreamOff, unsafe.Pointer(&typ)); err != nil {
		return fmt.Errorf("VIDIOC_STREAMOFF: %w", err)
	}
	return nil
}

// waitFrame waits for the device to become readable.
func waitFrame(fd int, timeoutSec int) (bool, error) {
	for {
		var fds unix.FdSet
		fds.Set(fd)
		tv := unix.NsecToTimeval(int64(timeoutSec) * 1e9)
		n, err := unix.Select(fd+1, &fds, nil, nil, &tv)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("select: %w", err)
		}
		return n > 0, nil
	}
}
