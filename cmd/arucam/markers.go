package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"arucam.dev/aruco"
)

func markersCmd() *cobra.Command {
	var (
		outDir string
		scale  int
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "markers [id...]",
		Short: "Render dictionary markers as PNG files",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			dict, err := aruco.DictionaryByName(p.Detector.Dictionary)
			if err != nil {
				return err
			}
			var ids []int
			switch {
			case all:
				for id := 0; id < dict.Len(); id++ {
					ids = append(ids, id)
				}
			case len(args) == 0:
				return fmt.Errorf("no marker ids given; pass ids or --all")
			default:
				for _, a := range args {
					id, err := strconv.Atoi(a)
					if err != nil {
						return fmt.Errorf("invalid marker id %q", a)
					}
					ids = append(ids, id)
				}
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			for _, id := range ids {
				img, err := dict.Image(id, scale)
				if err != nil {
					return err
				}
				name := filepath.Join(outDir, fmt.Sprintf("%s_%02d.png", dict.Name, id))
				if err := writeImage(name, img, 0); err != nil {
					return err
				}
				slog.Debug("marker written", "file", name)
			}
			slog.Info("markers rendered", "dictionary", dict.Name, "count", len(ids), "dir", outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "markers", "output directory")
	cmd.Flags().IntVar(&scale, "scale", 20, "pixels per marker cell")
	cmd.Flags().BoolVar(&all, "all", false, "render every marker in the dictionary")
	return cmd
}
