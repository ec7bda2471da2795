package main

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newWorkerCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consome eventos do RabbitMQ e gera notificações",
		Long: "Consome eventos do RabbitMQ e gera notificações. " +
			"Use com REALTIME_SOURCE=pg_notify para que a API entregue as notificações via websocket.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := rt.open(ctx)
			if err != nil {
				return err
			}
			defer application.Close()

			consumer, err := application.NewNotificationConsumer()
			if err != nil {
				return err
			}
			if consumer == nil {
				return errors.New("RABBITMQ_URL is required for the worker")
			}
			if rt.cfg.Realtime.Source != "pg_notify" {
				rt.logger.Warn("worker notifications reach websockets only with REALTIME_SOURCE=pg_notify")
			}

			rt.logger.Info("notification worker started", "queue", rt.cfg.RabbitMQ.Queue)
			if err := consumer.Run(ctx, application.Services.Notifications); err != nil && ctx.Err() == nil {
				return err
			}
			rt.logger.Info("notification worker stopped")
			return nil
		},
	}
}
