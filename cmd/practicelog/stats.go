package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"practicelog/internal/sessions"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show practice totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.loadHistory(cmd)
			if err != nil {
				return err
			}

			s := sessions.ComputeStats(h.Records)
			mostRecent := s.MostRecent
			if mostRecent == "" {
				mostRecent = "-"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total questions: %d\n", s.TotalQuestions)
			fmt.Fprintf(out, "Practice days:   %d\n", s.UniqueDays)
			fmt.Fprintf(out, "Sessions:        %d\n", len(h.Records))
			fmt.Fprintf(out, "Most recent:     %s\n", mostRecent)
			if h.LastUpdated != "" {
				fmt.Fprintf(out, "Feed updated:    %s\n", h.LastUpdated)
			}
			return nil
		},
	}
}
