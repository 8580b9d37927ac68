package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/hall/internal/ports/primary"
	"github.com/example/hall/internal/wire"
)

// RequestCmd returns the request command
func RequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Manage employer labor requests",
		Long:  "Submit, inspect, assign, and cancel employer labor requests.",
	}

	cmd.AddCommand(requestSubmitCmd())
	cmd.AddCommand(requestShowCmd())
	cmd.AddCommand(requestAssignCmd())
	cmd.AddCommand(requestCancelCmd())
	addActorFlag(cmd)
	return cmd
}

func requestSubmitCmd() *cobra.Command {
	var (
		tier       int
		class      string
		quantity   int
		startDate  string
		namedMember string
	)

	cmd := &cobra.Command{
		Use:   "submit [employer-id] [book-id]",
		Short: "Submit a labor request",
		Long: `Submit an employer's ask for N workers of a classification. Requests
arriving at or after the same-day cutoff are scheduled for the next cycle.

Examples:
  hall request submit EMP-001 BOOK-001 --class wireman --quantity 3 --start 2026-09-01
  hall request submit EMP-002 BOOK-001 --class wireman --quantity 1 --name MBR-004 --start 2026-09-01`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDate(startDate)
			if err != nil {
				return fmt.Errorf("invalid start date: %w", err)
			}

			_, err = wire.DispatchAdapter().Submit(commandContext(cmd), primary.SubmitRequestInput{
				EmployerID:     args[0],
				BookID:         args[1],
				Tier:           tier,
				Classification: class,
				Quantity:       quantity,
				StartDate:      start,
				NamedMemberID:  namedMember,
			})
			return err
		},
	}

	cmd.Flags().IntVar(&tier, "tier", 1, "book tier to draw from")
	cmd.Flags().StringVar(&class, "class", "", "worker classification requested")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "number of workers requested")
	cmd.Flags().StringVar(&startDate, "start", "", "job start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&namedMember, "name", "", "by-name member request (anti-collusion rules apply)")
	return cmd
}

func requestShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [request-id]",
		Short: "Show a labor request with its dispatch tally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.DispatchAdapter().Show(commandContext(cmd), args[0])
			return err
		},
	}
}

func requestAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign [request-id]",
		Short: "Run the matching algorithm for a request",
		Long: `Walk the book's queue in position order, dispatching eligible
candidates until the request fills or the queue ends. Requests past the
same-day cutoff defer to the next cycle.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.DispatchAdapter().Assign(commandContext(cmd), args[0])
			return err
		},
	}
}

func requestCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [request-id]",
		Short: "Cancel the unfilled remainder of a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DispatchAdapter().Cancel(commandContext(cmd), args[0])
		},
	}
}
