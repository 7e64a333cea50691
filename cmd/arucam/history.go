package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"arucam.dev/history"
)

func historyCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect stored benchmark runs",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "arucam.db", "history database path")

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent benchmark runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			runs, err := store.List(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-5s %-20s %-14s %-12s %-8s %-10s %-8s\n",
				"ID", "Time", "Device", "Config", "Markers", "Time (ms)", "FPS")
			for _, r := range runs {
				fmt.Fprintf(out, "%-5d %-20s %-14s %-12s %-8d %-10.2f %-8.1f\n",
					r.ID, r.RunAt.Format("2006-01-02 15:04:05"), r.Device, r.Config,
					r.Markers, r.TimeMS, r.FPS)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum runs to list, 0 for all")

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete old benchmark runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			n, err := store.Prune(time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d runs\n", n)
			return nil
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "delete runs older than this")

	cmd.AddCommand(list, prune)
	return cmd
}
