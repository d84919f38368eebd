package main

import (
	"github.com/spf13/cobra"
)

func newPageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "page <file>",
		Short: "Parse a question page from the source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.pageService()
			if err != nil {
				return err
			}
			page, err := svc.Get(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printDetails(cmd.OutOrStdout(), page.Questions)
		},
	}
}
