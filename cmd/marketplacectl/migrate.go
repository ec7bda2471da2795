package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rafabene/marketplace-backend/internal/infrastructure/persistence/postgres"
)

func newMigrateCommand(rt *runtime) *cobra.Command {
	var skipTriggers bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Cria/atualiza o schema e instala os triggers de tempo real",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := postgres.NewDatabaseConnection(&rt.cfg.Database, rt.logger)
			if err != nil {
				return err
			}
			defer func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}()

			if err := postgres.Migrate(db, !skipTriggers); err != nil {
				return err
			}
			rt.logger.Info("database migrated", "triggers", !skipTriggers)
			fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipTriggers, "skip-triggers", false, "não instala os triggers de NOTIFY")
	return cmd
}
