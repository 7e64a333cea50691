package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"

	"arucam.dev/devlist"
)

func devicesCmd() *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List video capture devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			devs, err := devlist.NewScanner().Scan()
			if err != nil {
				return err
			}
			if len(devs) == 0 {
				fmt.Fprintln(out, "no video devices found")
			}
			for _, d := range devs {
				fmt.Fprintf(out, "%-14s %-5d %s\n", d.Path, d.Index, d.Name)
			}
			if !watch {
				return nil
			}
			return watchDevices(interval)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and report device changes")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "watch poll interval")
	return cmd
}

func watchDevices(interval time.Duration) error {
	w, err := devlist.NewWatcher("/dev")
	if err != nil {
		return err
	}
	go func() {
		for {
			select {
			case e := <-w.Event:
				switch e.Op {
				case watcher.Create:
					slog.Info("device added", "path", e.Path)
				case watcher.Remove:
					slog.Info("device removed", "path", e.Path)
				}
			case err := <-w.Error:
				slog.Error("watch error", "err", err)
			case <-w.Closed:
				return
			}
		}
	}()
	slog.Info("watching for video devices", "dir", "/dev", "interval", interval)
	return w.Start(interval)
}
