package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newCreditsCommand(rt *runtime) *cobra.Command {
	credits := &cobra.Command{
		Use:   "credits",
		Short: "Gerencia créditos da plataforma",
	}

	var userID, amount, reason string
	grant := &cobra.Command{
		Use:   "grant",
		Short: "Concede créditos a um usuário",
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}

			application, err := rt.open(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()

			if _, err := application.Services.Profiles.GetProfile(cmd.Context(), userID); err != nil {
				return fmt.Errorf("profile %s: %w", userID, err)
			}

			tx, err := application.Services.Credits.Grant(cmd.Context(), userID, value, reason)
			if err != nil {
				return err
			}
			balance, err := application.Services.Credits.Balance(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "granted %s %s to %s (transaction %s, balance %s)\n",
				value.StringFixed(2), rt.cfg.Payments.Currency, userID, tx.ID, balance.StringFixed(2))
			return nil
		},
	}
	grant.Flags().StringVar(&userID, "user", "", "ID do perfil")
	grant.Flags().StringVar(&amount, "amount", "", "valor a conceder")
	grant.Flags().StringVar(&reason, "reason", "", "motivo registrado na transação")
	_ = grant.MarkFlagRequired("user")
	_ = grant.MarkFlagRequired("amount")

	credits.AddCommand(grant)
	return credits
}
