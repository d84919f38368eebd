package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"practicelog/internal/database"
	"practicelog/internal/middleware"
	"practicelog/internal/worker"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin bearer token from $ADMIN_JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth := middleware.NewAdminAuth(a.cfg.AdminJWTSecret)
			token, err := auth.GenerateToken(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "token lifetime")
	return cmd
}

func newReloadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Ask running servers to reload through the Redis queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.RedisURL == "" {
				return errors.New("REDIS_URL is not set")
			}
			clients, err := database.NewRedisClients(a.cfg.RedisURL)
			if err != nil {
				return err
			}
			defer clients.Close()

			if err := worker.EnqueueReload(commandContext(cmd), clients.QueueClient(), "cli"); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reload queued.")
			return nil
		},
	}
}
