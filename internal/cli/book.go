package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/hall/internal/wire"
)

// BookCmd returns the book command
func BookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Inspect referral books",
		Long:  "List and show the referral books workers register on.",
	}

	cmd.AddCommand(bookListCmd())
	cmd.AddCommand(bookShowCmd())
	return cmd
}

func bookListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List referral books",
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := wire.Books().List(commandContext(cmd))
			if err != nil {
				return fmt.Errorf("failed to list books: %w", err)
			}

			if len(books) == 0 {
				fmt.Println("No books found. Run 'hall init --seed' for demo data.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCLASS\tGROUP\tTIERS\tBIDDING")
			fmt.Fprintln(w, "--\t----\t-----\t-----\t-----\t-------")
			for _, b := range books {
				bidding := "no"
				if b.OnlineBidding {
					bidding = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					b.ID, b.Name, b.Classification, b.Group, b.TierCount, bidding)
			}
			w.Flush()
			return nil
		},
	}
}

func bookShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [book-id]",
		Short: "Show book details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := wire.Books().GetByID(commandContext(cmd), args[0])
			if err != nil {
				return fmt.Errorf("failed to get book: %w", err)
			}

			fmt.Printf("\nBook: %s\n", b.ID)
			fmt.Printf("Name:      %s\n", b.Name)
			fmt.Printf("Class:     %s\n", b.Classification)
			fmt.Printf("Agreement: %s\n", b.AgreementType)
			fmt.Printf("Group:     %s (cycle start %s)\n", b.Group, b.ProcessingStart)
			fmt.Printf("Tiers:     %d\n", b.TierCount)
			fmt.Printf("Bidding:   %t\n", b.OnlineBidding)
			fmt.Println()
			return nil
		},
	}
}
