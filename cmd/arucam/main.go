// arucam is camera tooling for tuning ArUco marker detection: it
// benchmarks detector configurations, captures frames, renders
// markers and lists capture devices. It reads camera settings but
// never changes camera controls.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"arucam.dev/profile"
)

var (
	flagConfigDir string
	flagProfile   string
	flagDevice    string
	flagVerbose   bool
)

func main() {
	godotenv.Load()
	root := &cobra.Command{
		Use:           "arucam",
		Short:         "Camera tooling for ArUco marker detection tuning",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if flagVerbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}
	root.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "config", "directory containing profile YAML files")
	root.PersistentFlags().StringVar(&flagProfile, "profile", "", "camera profile name, e.g. camera_c920")
	root.PersistentFlags().StringVar(&flagDevice, "device", "", "video device path, overrides the profile")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(benchCmd(), captureCmd(), devicesCmd(), markersCmd(), historyCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "arucam:", err)
		os.Exit(1)
	}
}

// loadProfile resolves the active profile and applies the device
// override flag.
func loadProfile() (*profile.Profile, error) {
	p, err := profile.Load(flagConfigDir, flagProfile)
	if err != nil {
		return nil, err
	}
	if flagDevice != "" {
		p.Camera.Device = flagDevice
	}
	return p, nil
}
