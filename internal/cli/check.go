package cli

import (
	"context"
	"fmt"

	"order-forwarder/internal/core/logger"

	"github.com/spf13/cobra"
)

func newCheckCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the billing API accepts the configured credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, adapter, err := setup(*configDir)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Billing.Timeout)
			defer cancel()
			if err := adapter.HealthCheck(ctx); err != nil {
				return fmt.Errorf("billing API check failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "billing API reachable at %s\n", cfg.Billing.URL)
			return nil
		},
	}
}
