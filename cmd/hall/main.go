package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/hall/internal/cli"
	"github.com/example/hall/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "hall",
		Short:   "hall - out-of-work referral and dispatch engine",
		Version: version.String(),
		Long: `hall manages a union hiring hall's out-of-work lists: registrations,
employer labor requests, position-order dispatch, online bidding, and the
penalty rules that keep the queue fair.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.BookCmd())
	rootCmd.AddCommand(cli.RegisterCmd())
	rootCmd.AddCommand(cli.CandidatesCmd())
	rootCmd.AddCommand(cli.RegistrationCmd())
	rootCmd.AddCommand(cli.RequestCmd())
	rootCmd.AddCommand(cli.DispatchCmd())
	rootCmd.AddCommand(cli.BidCmd())
	rootCmd.AddCommand(cli.CheckMarkCmd())
	rootCmd.AddCommand(cli.SeparationCmd())
	rootCmd.AddCommand(cli.ExemptionCmd())
	rootCmd.AddCommand(cli.ActivityCmd())
	rootCmd.AddCommand(cli.CycleCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
