package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/meeting-intake/internal/infrastructure/bookingapi"
	"github.com/example/meeting-intake/internal/infrastructure/config"
)

func NewPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity to the booking service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			client := bookingapi.New(cfg.BookingURL, cfg.BookingToken)
			if err := client.Ping(ctx); err != nil {
				return err
			}
			fmt.Println("booking service ok")
			return nil
		},
	}
}
