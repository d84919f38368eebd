package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"practicelog/internal/models"
)

func newShowCmd(a *app) *cobra.Command {
	var expand bool
	cmd := &cobra.Command{
		Use:   "show <index>",
		Short: "Show one session by its position in the flat listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}

			h, err := a.loadHistory(cmd)
			if err != nil {
				return err
			}
			if index < 0 || index >= len(h.Records) {
				return fmt.Errorf("no session at index %d (have %d)", index, len(h.Records))
			}
			rec := h.Records[index]

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  (%d questions)\n\n", rec.Timestamp, rec.Count)

			if !expand {
				return printSummaries(out, rec.Questions)
			}

			svc, err := a.pageService()
			if err != nil {
				return err
			}
			details, err := svc.Expand(commandContext(cmd), rec)
			if err != nil {
				return err
			}
			return printDetails(out, details)
		},
	}
	cmd.Flags().BoolVar(&expand, "expand", false, "fetch and parse the question pages")
	return cmd
}

func printSummaries(out io.Writer, questions []models.QuestionSummary) error {
	if len(questions) == 0 {
		fmt.Fprintln(out, "No question list recorded for this session.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "No.\tTitle\tDifficulty")
	fmt.Fprintln(w, "---\t-----\t----------")
	for _, q := range questions {
		fmt.Fprintf(w, "%s\t%s\t%s\n", q.Number, q.Title, q.Difficulty.Label())
	}
	return w.Flush()
}

func printDetails(out io.Writer, details []models.QuestionDetail) error {
	if len(details) == 0 {
		fmt.Fprintln(out, "No questions.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "No.\tTitle\tDifficulty\tLink")
	fmt.Fprintln(w, "---\t-----\t----------\t----")
	for _, d := range details {
		link := d.URL
		if link == "" {
			link = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Number, d.Title, d.DifficultyLabel, link)
	}
	return w.Flush()
}
