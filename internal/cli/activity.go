package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/hall/internal/ports/primary"
	"github.com/example/hall/internal/wire"
)

// ActivityCmd returns the activity command
func ActivityCmd() *cobra.Command {
	var (
		memberID string
		bookID   string
		from     string
		to       string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Stream the audit activity trail",
		Long: `Stream registration activity, oldest first. Every state change and
every skipped candidate appears here with the actor that caused it.

Examples:
  hall activity --member MBR-001
  hall activity --book BOOK-001 --from 2026-08-01 --to 2026-08-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := primary.ActivityFilter{
				MemberID: memberID,
				BookID:   bookID,
				Limit:    limit,
			}
			if from != "" {
				t, err := parseDate(from)
				if err != nil {
					return fmt.Errorf("invalid from date: %w", err)
				}
				filter.From = t
			}
			if to != "" {
				t, err := parseDate(to)
				if err != nil {
					return fmt.Errorf("invalid to date: %w", err)
				}
				filter.To = t
			}

			_, err := wire.ActivityAdapter().Stream(commandContext(cmd), filter)
			return err
		},
	}

	cmd.Flags().StringVar(&memberID, "member", "", "filter by member ID")
	cmd.Flags().StringVar(&bookID, "book", "", "filter by book ID")
	cmd.Flags().StringVar(&from, "from", "", "earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "latest date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum rows returned")
	return cmd
}
