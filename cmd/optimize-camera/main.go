// optimize-camera reports that automatic camera control tuning is
// disabled. It accepts a device path for symmetry with the tools that
// do open cameras, but never touches the device.
package main

import (
	"fmt"
	"io"
	"os"
)

const defaultDevice = "/dev/video0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, w io.Writer) int {
	device := defaultDevice
	if len(args) > 0 {
		device = args[0]
	}
	fmt.Fprintln(w, "Camera optimization is disabled.")
	fmt.Fprintf(w, "Skipping all camera control changes for device: %s\n", device)
	fmt.Fprintln(w, "No camera settings were modified.")
	return 0
}
