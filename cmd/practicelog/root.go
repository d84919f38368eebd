package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"practicelog/internal/config"
	"practicelog/internal/feed"
	"practicelog/internal/logging"
	"practicelog/internal/models"
	"practicelog/internal/repository"
	"practicelog/internal/services"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	source  string
	file    string
	verbose bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "practicelog",
		Short: "Browse a daily coding-practice history",
		Long: `practicelog reads the history feed written by the daily practice
generator and prints it grouped by date, paged, or summarised.

The feed location defaults to HISTORY_SOURCE and may be a directory or an
http(s) base URL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			if a.source == "" {
				a.source = a.cfg.HistorySource
			}
			if a.file == "" {
				a.file = a.cfg.HistoryFile
			}

			logger, err := newLogger(a.cfg.Env, a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&a.source, "source", "", "history directory or base URL (default $HISTORY_SOURCE)")
	root.PersistentFlags().StringVar(&a.file, "file", "", "history file name inside the source (default $HISTORY_FILE)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newDatesCmd(a),
		newDayCmd(a),
		newListCmd(a),
		newStatsCmd(a),
		newShowCmd(a),
		newPageCmd(a),
		newTokenCmd(a),
		newReloadCmd(a),
	)
	return root
}

// newLogger logs warnings and up, everything with verbose.
func newLogger(env string, verbose bool) (*zap.Logger, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logging.New(env, level)
}

func (a *app) openSource() (feed.Source, error) {
	return feed.NewSource(a.source, a.cfg.FetchTimeout)
}

// loadHistory loads the feed. A failed load is reported on stderr and the
// command carries on with an empty history.
func (a *app) loadHistory(cmd *cobra.Command) (*models.History, error) {
	src, err := a.openSource()
	if err != nil {
		return nil, err
	}
	h, err := repository.NewHistoryRepo(src, a.file, a.logger).Load(commandContext(cmd))
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	return h, nil
}

func (a *app) pageService() (*services.QuestionPageService, error) {
	src, err := a.openSource()
	if err != nil {
		return nil, err
	}
	return services.NewQuestionPageService(src, nil, a.logger), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
