package cli

import (
	"fmt"

	"order-forwarder/internal/core/config"
	"order-forwarder/internal/core/logger"
	billingadapter "order-forwarder/internal/features/billing/adapters"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:           "forwardctl",
		Short:         "Operate the order forwarder by hand",
		Long:          "forwardctl re-forwards a saved order to the billing API and checks API connectivity, using the same configuration as the service.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory holding the .env file")

	cmd.AddCommand(newForwardCmd(&configDir))
	cmd.AddCommand(newCheckCmd(&configDir))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

// setup loads configuration, initializes logging and builds the billing adapter.
func setup(configDir string) (*config.AppConfig, *billingadapter.InfaktAdapter, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	adapter, err := billingadapter.NewInfaktAdapter(cfg.Billing)
	if err != nil {
		return nil, nil, fmt.Errorf("billing adapter: %w", err)
	}
	return cfg, adapter, nil
}
