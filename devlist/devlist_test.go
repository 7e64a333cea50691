package devlist

import (
	"testing"
	"testing/fstest"
)

func TestScan(t *testing.T) {
	fsys := fstest.MapFS{
		"video0/name":  {Data: []byte("HD Pro Webcam C920\n")},
		"video2/name":  {Data: []byte("UVC Camera (046d:081d)\n")},
		"video10/name": {Data: []byte("Dummy video device (0x0000)\n")},
		"v4l-subdev0":  {Mode: 0, Data: nil},
	}
	s := NewScanner(WithSysfs(fsys), WithDevDir("/dev"))
	devices, err := s.Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 3 {
		t.Fatalf("got %d devices, want 3: %v", len(devices), devices)
	}
	want := []Device{
		{Path: "/dev/video0", Name: "HD Pro Webcam C920", Index: 0},
		{Path: "/dev/video2", Name: "UVC Camera (046d:081d)", Index: 2},
		{Path: "/dev/video10", Name: "Dummy video device (0x0000)", Index: 10},
	}
	for i, w := range want {
		if devices[i] != w {
			t.Errorf("device %d: got %+v, want %+v", i, devices[i], w)
		}
	}
}

func TestScanMissingName(t *testing.T) {
	fsys := fstest.MapFS{
		"video1/index": {Data: []byte("0\n")},
	}
	devices, err := NewScanner(WithSysfs(fsys)).Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 1 || devices[0].Name != "" || devices[0].Path != "/dev/video1" {
		t.Errorf("got %+v", devices)
	}
}

func TestScanEmpty(t *testing.T) {
	devices, err := NewScanner(WithSysfs(fstest.MapFS{})).Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 0 {
		t.Errorf("got %v, want none", devices)
	}
}

func TestVideoIndex(t *testing.T) {
	tests := []struct {
		name string
		idx  int
		ok   bool
	}{
		{"video0", 0, true},
		{"video42", 42, true},
		{"videoX", 0, false},
		{"v4l-subdev0", 0, false},
		{"media0", 0, false},
	}
	for _, test := range tests {
		idx, ok := videoIndex(test.name)
		if idx != test.idx || ok != test.ok {
			t.Errorf("videoIndex(%q) = %d, %v; want %d, %v", test.name, idx, ok, test.idx, test.ok)
		}
	}
}
