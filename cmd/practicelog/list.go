package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"practicelog/internal/models"
	"practicelog/internal/sessions"
)

type pageFlags struct {
	page int
	size int
}

func (f *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 1, "page number, clamped to the available pages")
	cmd.Flags().IntVar(&f.size, "page-size", 0, "records per page (default $DEFAULT_PAGE_SIZE)")
}

func (f *pageFlags) paginate(a *app, records []models.SessionRecord) (sessions.Page, error) {
	size := f.size
	if size == 0 {
		size = a.cfg.DefaultPageSize
	}
	if err := sessions.ValidatePageSize(size, a.cfg.PageSizeOptions); err != nil {
		return sessions.Page{}, err
	}
	return sessions.Paginate(records, size, f.page)
}

func newListCmd(a *app) *cobra.Command {
	var flags pageFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Page through every session, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.loadHistory(cmd)
			if err != nil {
				return err
			}
			page, err := flags.paginate(a, h.Records)
			if err != nil {
				return err
			}
			return printPage(cmd.OutOrStdout(), page, nil)
		},
	}
	flags.register(cmd)
	return cmd
}

func newDayCmd(a *app) *cobra.Command {
	var flags pageFlags
	cmd := &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "Page through the sessions of one date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.loadHistory(cmd)
			if err != nil {
				return err
			}
			date := args[0]
			page, err := flags.paginate(a, sessions.RecordsOn(h.Records, date))
			if err != nil {
				return err
			}
			first := page.FirstIndex()
			indices := sessions.IndicesOn(h.Records, date)[first : first+len(page.Records)]
			return printPage(cmd.OutOrStdout(), page, indices)
		},
	}
	flags.register(cmd)
	return cmd
}

// printPage writes one page as a table. The # column is always the index
// show accepts. A nil indices means page is over the flat listing and shows
// full timestamps; otherwise indices holds each row's flat index and only the
// clock time is shown.
func printPage(out io.Writer, page sessions.Page, indices []int) error {
	if page.TotalRecords == 0 {
		fmt.Fprintln(out, "No sessions.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tWhen\tCount\tQuestions")
	fmt.Fprintln(w, "-\t----\t-----\t---------")
	for i, rec := range page.Records {
		index, when := page.FirstIndex()+i, rec.Timestamp
		if indices != nil {
			index, when = indices[i], rec.ClockTime()
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", index, when, rec.Count, questionTitles(rec))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\npage %d/%d, %d sessions\n", page.CurrentPage, page.TotalPages, page.TotalRecords)
	return nil
}

func questionTitles(rec models.SessionRecord) string {
	if len(rec.Questions) == 0 {
		if rec.File != "" {
			return rec.File
		}
		return "-"
	}
	titles := make([]string, 0, len(rec.Questions))
	for _, q := range rec.Questions {
		if q.Number != "" {
			titles = append(titles, fmt.Sprintf("%s. %s", q.Number, q.Title))
		} else {
			titles = append(titles, q.Title)
		}
	}
	return strings.Join(titles, "; ")
}
