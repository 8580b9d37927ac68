package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/hall/internal/ports/primary"
	"github.com/example/hall/internal/wire"
)

// BidCmd returns the bid command
func BidCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bid",
		Short: "Manage online job bids",
		Long: `Submit and decide bids placed during the nightly bidding window.
Repeated rejections suspend a member's bidding privilege; their place on the
books is never affected.`,
	}

	cmd.AddCommand(bidSubmitCmd())
	cmd.AddCommand(bidOutcomeCmd())
	cmd.AddCommand(bidWithdrawCmd())
	cmd.AddCommand(bidListCmd())
	addActorFlag(cmd)
	return cmd
}

func bidSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit [member-id] [request-id]",
		Short: "Submit a bid on a labor request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := wire.BidService().SubmitBid(commandContext(cmd), primary.SubmitBidInput{
				MemberID:  args[0],
				RequestID: args[1],
			})
			if err != nil {
				return fmt.Errorf("failed to submit bid: %w", err)
			}
			fmt.Printf("Submitted %s: %s on %s\n", b.ID, b.MemberID, b.RequestID)
			return nil
		},
	}
}

func bidOutcomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outcome [bid-id] [accepted|rejected]",
		Short: "Decide a pending bid",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := wire.BidService().RecordOutcome(commandContext(cmd), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to record outcome: %w", err)
			}
			fmt.Printf("Bid %s: %s\n", b.ID, b.Outcome)
			return nil
		},
	}
}

func bidWithdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw [bid-id]",
		Short: "Withdraw a pending bid (never counted as a rejection)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.BidService().Withdraw(commandContext(cmd), args[0]); err != nil {
				return fmt.Errorf("failed to withdraw bid: %w", err)
			}
			fmt.Printf("Withdrew %s\n", args[0])
			return nil
		},
	}
}

func bidListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [request-id]",
		Short: "List bids placed against a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bids, err := wire.BidService().ListBids(commandContext(cmd), args[0])
			if err != nil {
				return fmt.Errorf("failed to list bids: %w", err)
			}

			if len(bids) == 0 {
				fmt.Println("No bids found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tMEMBER\tOUTCOME\tSUBMITTED\tDECIDED")
			fmt.Fprintln(w, "--\t------\t-------\t---------\t-------")
			for _, b := range bids {
				decided := ""
				if !b.DecidedAt.IsZero() {
					decided = b.DecidedAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					b.ID, b.MemberID, b.Outcome, b.SubmittedAt.Format("2006-01-02 15:04"), decided)
			}
			w.Flush()
			return nil
		},
	}
}
