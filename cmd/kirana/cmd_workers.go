package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/kirana/app/services"
	"github.com/shashiranjanraj/kirana/config"
	"github.com/shashiranjanraj/kirana/pkg/cache"
	"github.com/shashiranjanraj/kirana/pkg/logger"
	"github.com/shashiranjanraj/kirana/pkg/queue"
)

// kirana queue:work — run queue workers without the HTTP server. Requires
// the redis queue driver; with the in-memory driver there is nothing for a
// separate process to consume.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Process queued jobs until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cache.Connect(ctx); err != nil {
			return err
		}
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		services.RegisterJobs()

		queue.StartWorkers(ctx, 4)
		logger.Info("queue workers running, press ctrl-c to stop")

		<-ctx.Done()
		return nil
	},
}
