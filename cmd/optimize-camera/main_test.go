package main

import (
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default", nil, "/dev/video0"},
		{"explicit", []string{"/dev/video2"}, "/dev/video2"},
		{"nonexistent", []string{"/dev/video99"}, "/dev/video99"},
		{"malformed", []string{"not a device"}, "not a device"},
		{"extra args ignored", []string{"/dev/video1", "--force", "junk"}, "/dev/video1"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var b strings.Builder
			if code := run(test.args, &b); code != 0 {
				t.Fatalf("exit code %d, want 0", code)
			}
			want := "Skipping all camera control changes for device: " + test.want + "\n"
			if !strings.Contains(b.String(), want) {
				t.Errorf("output %q missing %q", b.String(), want)
			}
		})
	}
}

func TestRunIdempotent(t *testing.T) {
	var first string
	for i := 0; i < 3; i++ {
		var b strings.Builder
		if code := run([]string{"/dev/video2"}, &b); code != 0 {
			t.Fatalf("run %d: exit code %d", i, code)
		}
		if i == 0 {
			first = b.String()
		} else if b.String() != first {
			t.Fatalf("run %d output differs:\n%q\n%q", i, b.String(), first)
		}
	}
}
