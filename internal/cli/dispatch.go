package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/hall/internal/wire"
)

// DispatchCmd returns the dispatch command
func DispatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Manage committed dispatches",
	}

	cmd.AddCommand(dispatchTerminateCmd())
	addActorFlag(cmd)
	return cmd
}

func dispatchTerminateCmd() *cobra.Command {
	var (
		reason  string
		endDate string
	)

	cmd := &cobra.Command{
		Use:   "terminate [dispatch-id]",
		Short: "Close a dispatch",
		Long: `Close a dispatch with a termination reason. Jobs at or under the
short-call threshold return the member to their original book position.
Quit and discharge trigger the separation cascade: every registration the
member holds rolls off and a blackout bars the separating employer.

Examples:
  hall dispatch terminate DSP-001 --reason completed --end 2026-09-12
  hall dispatch terminate DSP-002 --reason quit --end 2026-09-05`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			end, err := parseDate(endDate)
			if err != nil {
				return fmt.Errorf("invalid end date: %w", err)
			}

			_, err = wire.DispatchAdapter().Terminate(commandContext(cmd), args[0], reason, end)
			return err
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "completed", "termination reason (completed|quit|discharged|short_call|other)")
	cmd.Flags().StringVar(&endDate, "end", "", "actual end date (YYYY-MM-DD, default today)")
	return cmd
}
