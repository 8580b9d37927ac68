package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/hall/internal/wire"
)

// RegisterCmd returns the register command
func RegisterCmd() *cobra.Command {
	var tier int

	cmd := &cobra.Command{
		Use:   "register [member-id] [book-id]",
		Short: "Register a member on a book tier",
		Long: `Place a member on the out-of-work list for a book tier. The
registration's queue position is its sign-in day plus a same-day tie-break.

Examples:
  hall register MBR-001 BOOK-001 --tier 1
  hall register MBR-002 BOOK-003 --tier 2 --actor dispatcher-7`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.QueueAdapter().Register(commandContext(cmd), args[0], args[1], tier)
			return err
		},
	}

	cmd.Flags().IntVar(&tier, "tier", 1, "book tier to register on")
	addActorFlag(cmd)
	return cmd
}

// CandidatesCmd returns the candidates command
func CandidatesCmd() *cobra.Command {
	var tier int

	cmd := &cobra.Command{
		Use:   "candidates [book-id]",
		Short: "List the active queue for a book tier in dispatch order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.QueueAdapter().Candidates(commandContext(cmd), args[0], tier)
			return err
		},
	}

	cmd.Flags().IntVar(&tier, "tier", 1, "book tier to list")
	return cmd
}

// RegistrationCmd returns the registration command for lifecycle operations.
func RegistrationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registration",
		Short: "Manage individual registrations",
	}

	cmd.AddCommand(registrationShowCmd())
	cmd.AddCommand(registrationReSignCmd())
	cmd.AddCommand(registrationRollOffCmd())
	cmd.AddCommand(registrationResignCmd())
	cmd.AddCommand(registrationReinstateCmd())
	addActorFlag(cmd)
	return cmd
}

func registrationShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [registration-id]",
		Short: "Show registration details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.QueueAdapter().Show(commandContext(cmd), args[0])
			return err
		},
	}
}

func registrationReSignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resign-in [registration-id]",
		Short: "Re-sign an active registration, refreshing its queue position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.QueueAdapter().ReSign(commandContext(cmd), args[0])
			return err
		},
	}
}

func registrationRollOffCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "rolloff [registration-id]",
		Short: "Roll a registration off its book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.QueueAdapter().RollOff(commandContext(cmd), args[0], reason)
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "administrative", "roll-off reason recorded on the audit trail")
	return cmd
}

func registrationResignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resign [registration-id]",
		Short: "Close a registration at the member's request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.QueueAdapter().Resign(commandContext(cmd), args[0])
		},
	}
}

func registrationReinstateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reinstate [registration-id]",
		Short: "Return a rolled-off registration to its book with a fresh position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.QueueAdapter().Reinstate(commandContext(cmd), args[0])
			return err
		},
	}
}
