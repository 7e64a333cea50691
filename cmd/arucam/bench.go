package main

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"arucam.dev/aruco"
	"arucam.dev/bench"
	"arucam.dev/camera"
	"arucam.dev/gray"
	"arucam.dev/history"
	"arucam.dev/profile"
)

func benchCmd() *cobra.Command {
	var (
		maxWidth   int
		warmup     int
		iterations int
		save       bool
		dbPath     string
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark detector configurations on a camera frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			dict, err := aruco.DictionaryByName(p.Detector.Dictionary)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			frame := bench.Downscale(benchFrame(cmd, p), maxWidth)

			fmt.Fprintln(out, "ArUco Detection Optimization Benchmark")
			fmt.Fprintf(out, "Device: %s, dictionary: %s, frame: %dx%d\n\n",
				p.Camera.Device, dict.Name, frame.Rect.Dx(), frame.Rect.Dy())

			cfgs := bench.Configs()
			bench.WriteConfigs(out, cfgs)
			fmt.Fprintln(out)
			var results []bench.Result
			for _, c := range cfgs {
				fmt.Fprintf(out, "Benchmarking %s...\n", c.Name)
				results = append(results, bench.Run(frame, dict, c, bench.Options{
					Warmup:     warmup,
					Iterations: iterations,
				}))
			}
			fmt.Fprintln(out)
			bench.WriteResults(out, results)
			fmt.Fprintln(out)
			bench.WriteImprovements(out, results)
			fmt.Fprintln(out)
			bench.WriteRecommendations(out)

			if !save {
				return nil
			}
			return saveResults(dbPath, p.Camera.Device, results)
		},
	}
	cmd.Flags().IntVar(&maxWidth, "max-width", 0, "downscale the frame to this width before benchmarking")
	cmd.Flags().IntVar(&warmup, "warmup", 3, "warmup runs per configuration")
	cmd.Flags().IntVar(&iterations, "iterations", 10, "timed runs per configuration")
	cmd.Flags().BoolVar(&save, "save", false, "record the results in the history database")
	cmd.Flags().StringVar(&dbPath, "db", "arucam.db", "history database path")
	return cmd
}

// benchFrame grabs one frame from the profile's camera, falling back
// to the deterministic test frame when the camera is unavailable.
func benchFrame(cmd *cobra.Command, p *profile.Profile) *image.Gray {
	img, err := camera.Snapshot(p.Camera.Device, camera.Config{
		Width:  p.Camera.Width,
		Height: p.Camera.Height,
		FPS:    p.Camera.FPS,
	}, 2*time.Second)
	if err != nil {
		slog.Warn("camera unavailable, benchmarking on the built-in test frame", "device", p.Camera.Device, "err", err)
		fmt.Fprintln(cmd.OutOrStdout(), "Camera unavailable, using built-in test frame.")
		return bench.TestFrame()
	}
	return gray.Convert(img)
}

func saveResults(dbPath, device string, results []bench.Result) error {
	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	for _, r := range results {
		_, err := store.Add(history.Run{
			Device:  device,
			Config:  r.Config,
			Markers: r.Markers,
			TimeMS:  r.TimeMS,
			FPS:     r.FPS,
		})
		if err != nil {
			return err
		}
	}
	slog.Info("results saved", "db", dbPath, "runs", len(results))
	return nil
}
