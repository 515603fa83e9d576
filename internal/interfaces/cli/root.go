package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meetintake",
		Short: "Meeting intake step: validates contact details and submits the booking",
	}
	cmd.AddCommand(NewServerCmd())
	cmd.AddCommand(NewBookCmd())
	cmd.AddCommand(NewPingCmd())
	cmd.AddCommand(newKeysCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func Execute() {
	if err := NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
