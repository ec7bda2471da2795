package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rafabene/marketplace-backend/internal/app"
	"github.com/rafabene/marketplace-backend/internal/domain/ports"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/config"
	"github.com/rafabene/marketplace-backend/internal/infrastructure/logging"
)

// runtime é o estado compartilhado pelos subcomandos
type runtime struct {
	cfg    *config.Config
	logger ports.Logger
	close  func() error
}

func newRootCommand() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:           "marketplacectl",
		Short:         "Tarefas administrativas do marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, closeLogger, err := logging.New(cfg.Logging)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			rt.cfg, rt.logger, rt.close = cfg, logger, closeLogger
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.close != nil {
				return rt.close()
			}
			return nil
		},
	}

	root.AddCommand(
		newMigrateCommand(rt),
		newSeedCommand(rt),
		newCreditsCommand(rt),
		newWorkerCommand(rt),
	)
	return root
}

// open monta a aplicação para um subcomando
func (rt *runtime) open(ctx context.Context) (*app.App, error) {
	return app.New(ctx, rt.cfg, rt.logger)
}
