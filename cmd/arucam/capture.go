package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nfnt/resize"
	"github.com/spf13/cobra"

	"arucam.dev/aruco"
	"arucam.dev/camera"
	"arucam.dev/gray"
	"arucam.dev/profile"
)

func captureCmd() *cobra.Command {
	var (
		output   string
		maxWidth int
		timeout  time.Duration
		quality  int
		detect   bool
	)
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Grab one frame from the camera and write it to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			img, err := camera.Snapshot(p.Camera.Device, camera.Config{
				Width:  p.Camera.Width,
				Height: p.Camera.Height,
				FPS:    p.Camera.FPS,
			}, timeout)
			if err != nil {
				return fmt.Errorf("capture %s: %w", p.Camera.Device, err)
			}
			if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
				img = resize.Resize(uint(maxWidth), 0, img, resize.Bilinear)
			}
			if detect {
				img, err = overlayDetections(img, p)
				if err != nil {
					return err
				}
			}
			if err := writeImage(output, img, quality); err != nil {
				return err
			}
			slog.Info("frame written", "device", p.Camera.Device, "file", output,
				"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "frame.png", "output file, .png or .jpg")
	cmd.Flags().IntVar(&maxWidth, "max-width", 0, "downscale the frame to this width")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "frame wait timeout")
	cmd.Flags().IntVar(&quality, "quality", 90, "JPEG quality")
	cmd.Flags().BoolVar(&detect, "detect", false, "outline detected markers on the frame")
	return cmd
}

// overlayDetections runs marker detection on the frame with the
// profile's detector settings and outlines the results.
func overlayDetections(img image.Image, p *profile.Profile) (image.Image, error) {
	dict, err := aruco.DictionaryByName(p.Detector.Dictionary)
	if err != nil {
		return nil, err
	}
	params := aruco.DefaultParameters()
	params.AdaptiveThreshConstant = p.Detector.AdaptiveThreshConstant
	params.CornerRefinementWinSize = p.Detector.CornerRefinementWinSize
	dets := aruco.NewDetector(dict, params).Detect(gray.Convert(img))
	slog.Info("markers detected", "count", len(dets))
	return aruco.Overlay(img, dets, color.RGBA{G: 255, A: 255}), nil
}

func writeImage(path string, img image.Image, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: quality})
	default:
		err = fmt.Errorf("unsupported image format %q", ext)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
