// Package devlist enumerates V4L2 capture devices from sysfs. No
// device node is ever opened; everything is read from the
// /sys/class/video4linux directory tree.
package devlist

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
)

// A Device is one video4linux node.
type Device struct {
	// Path is the device node, e.g. /dev/video0.
	Path string
	// Name is the card name the driver reports.
	Name string
	// Index is the node number.
	Index int
}

type options struct {
	sysfs  fs.FS
	devDir string
	log    *slog.Logger
}

type Option func(*Scanner)

// WithSysfs substitutes the /sys/class/video4linux tree, for tests.
func WithSysfs(fsys fs.FS) Option {
	return func(s *Scanner) { s.opts.sysfs = fsys }
}

// WithDevDir changes the directory device paths are rooted at.
func WithDevDir(dir string) Option {
	return func(s *Scanner) { s.opts.devDir = dir }
}

// WithLogger routes scan diagnostics to log.
func WithLogger(log *slog.Logger) Option {
	return func(s *Scanner) { s.opts.log = log }
}

// A Scanner lists video devices.
type Scanner struct {
	opts *options
}

func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{opts: &options{}}
	for _, opt := range opts {
		opt(s)
	}
	if s.opts.sysfs == nil {
		s.opts.sysfs = os.DirFS("/sys/class/video4linux")
	}
	if s.opts.devDir == "" {
		s.opts.devDir = "/dev"
	}
	if s.opts.log == nil {
		s.opts.log = slog.Default()
	}
	return s
}

// Scan returns the present video nodes sorted by index. Nodes whose
// attributes cannot be read are listed without a name rather than
// dropped.
func (s *Scanner) Scan() ([]Device, error) {
	entries, err := fs.ReadDir(s.opts.sysfs, ".")
	if err != nil {
		return nil, err
	}
	var devices []Device
	for _, e := range entries {
		idx, ok := videoIndex(e.Name())
		if !ok {
			continue
		}
		d := Device{
			Path:  path.Join(s.opts.devDir, e.Name()),
			Index: idx,
		}
		name, err := fs.ReadFile(s.opts.sysfs, path.Join(e.Name(), "name"))
		if err != nil {
			s.opts.log.Debug("no name attribute", "device", e.Name(), "err", err)
		} else {
			d.Name = strings.TrimSpace(string(name))
		}
		devices = append(devices, d)
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].Index < devices[j].Index })
	return devices, nil
}

func videoIndex(name string) (int, bool) {
	num, ok := strings.CutPrefix(name, "video")
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(num)
	if err != nil {
		return 0, false
	}
	return idx, true
}
