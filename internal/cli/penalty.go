package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/hall/internal/ports/primary"
	"github.com/example/hall/internal/wire"
)

// CheckMarkCmd returns the checkmark command
func CheckMarkCmd() *cobra.Command {
	var eventDate string

	cmd := &cobra.Command{
		Use:   "checkmark [registration-id]",
		Short: "Record a missed-obligation check mark",
		Long: `Record a check mark against a registration for a missed obligation
(no-show, refused referral). An active exemption covering the event date
suppresses the mark entirely. The final mark rolls the registration off.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(eventDate)
			if err != nil {
				return fmt.Errorf("invalid event date: %w", err)
			}

			result, err := wire.PenaltyService().RecordCheckMark(commandContext(cmd), args[0], date)
			if err != nil {
				return fmt.Errorf("failed to record check mark: %w", err)
			}

			switch {
			case result.Suppressed:
				fmt.Printf("Check mark on %s suppressed by active exemption\n", result.RegistrationID)
			case result.RolledOff:
				fmt.Printf("Check mark %d recorded: %s rolled off the book\n", result.CheckMarks, result.RegistrationID)
			default:
				fmt.Printf("Check mark %d recorded on %s\n", result.CheckMarks, result.RegistrationID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&eventDate, "date", "", "event date (YYYY-MM-DD, default today)")
	addActorFlag(cmd)
	return cmd
}

// SeparationCmd returns the separation command
func SeparationCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "separation [dispatch-id]",
		Short: "Report a quit or discharge on a dispatch",
		Long: `Apply the separation cascade for a dispatch: every registration the
member holds rolls off, and a blackout bars rematching with the separating
employer for the configured period.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := wire.PenaltyService().ReportSeparation(commandContext(cmd), args[0], kind)
			if err != nil {
				return fmt.Errorf("failed to report separation: %w", err)
			}

			fmt.Printf("Separation (%s) applied to %s\n", kind, result.MemberID)
			for _, id := range result.RolledOff {
				fmt.Printf("  rolled off %s\n", id)
			}
			fmt.Printf("  blackout %s until %s\n", result.BlackoutID, result.BlackoutUntil.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "quit", "separation kind (quit|discharge)")
	addActorFlag(cmd)
	return cmd
}

// ExemptionCmd returns the exemption command
func ExemptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exemption",
		Short: "Manage check-mark exemptions",
		Long: `Grant and revoke time-bounded exemptions. While exempt, a member is
passed over without penalty and check marks in the window are suppressed.`,
	}

	cmd.AddCommand(exemptionGrantCmd())
	cmd.AddCommand(exemptionRevokeCmd())
	addActorFlag(cmd)
	return cmd
}

func exemptionGrantCmd() *cobra.Command {
	var (
		reason string
		from   string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "grant [member-id] [book-id]",
		Short: "Grant a time-bounded exemption",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			starts, err := parseDate(from)
			if err != nil {
				return fmt.Errorf("invalid start date: %w", err)
			}
			ends, err := parseDate(to)
			if err != nil {
				return fmt.Errorf("invalid end date: %w", err)
			}

			e, err := wire.PenaltyService().GrantExemption(commandContext(cmd), primary.GrantExemptionInput{
				MemberID: args[0],
				BookID:   args[1],
				Reason:   reason,
				StartsOn: starts,
				EndsOn:   ends,
			})
			if err != nil {
				return fmt.Errorf("failed to grant exemption: %w", err)
			}

			fmt.Printf("Granted %s: %s on %s, %s through %s (%s)\n",
				e.ID, e.MemberID, e.BookID,
				e.StartsOn.Format("2006-01-02"), e.EndsOn.Format("2006-01-02"), e.Reason)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "exemption reason (medical, military, training, salting)")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	return cmd
}

func exemptionRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke [exemption-id]",
		Short: "Close an exemption early",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.PenaltyService().RevokeExemption(commandContext(cmd), args[0]); err != nil {
				return fmt.Errorf("failed to revoke exemption: %w", err)
			}
			fmt.Printf("Revoked %s\n", args[0])
			return nil
		},
	}
}
