package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"order-forwarder/internal/core/logger"
	"order-forwarder/internal/features/orders/domain"
	"order-forwarder/internal/features/orders/service"

	"github.com/spf13/cobra"
)

func newForwardCmd(configDir *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "forward",
		Short: "Forward one saved order to the billing API",
		Long:  "Reads an order-created webhook payload from --file (or stdin with -) and creates the client and invoice exactly like the webhook would.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, adapter, err := setup(*configDir)
			if err != nil {
				return err
			}
			defer logger.Sync()

			order, err := readOrder(cmd, file)
			if err != nil {
				return err
			}

			forwarder := service.NewOrderForwarder(adapter,
				service.WithDefaultCurrency(cfg.DefaultCurrency),
			)
			result, err := forwarder.Handle(cmd.Context(), order)
			if err != nil {
				return fmt.Errorf("forward failed: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the order JSON, - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readOrder(cmd *cobra.Command, file string) (*domain.Order, error) {
	var (
		raw []byte
		err error
	)
	if file == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("reading order: %w", err)
	}

	var order domain.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("decoding order: %w", err)
	}
	return &order, nil
}
