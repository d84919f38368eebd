package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"practicelog/internal/sessions"
)

func newDatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dates",
		Short: "List practice dates, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.loadHistory(cmd)
			if err != nil {
				return err
			}

			groups := sessions.Sidebar(h.Records)
			if len(groups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No practice records yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Date\tRuns\tQuestions")
			fmt.Fprintln(w, "----\t----\t---------")
			for _, g := range groups {
				fmt.Fprintf(w, "%s\t%d\t%d\n", g.Date, g.Runs, g.Questions)
			}
			return w.Flush()
		},
	}
}
