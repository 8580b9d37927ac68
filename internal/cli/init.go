package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/hall/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the hall database",
		Long:  `Initialize the hall database at ~/.hall/hall.db with the required schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing hall database at %s\n", dbPath)

			if err := db.InitSchema(); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}

			fmt.Println("✓ Database initialized successfully")

			if seed {
				database, err := db.GetDB()
				if err != nil {
					return fmt.Errorf("failed to open database: %w", err)
				}
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed fixtures: %w", err)
				}
				fmt.Println("✓ Seeded members, employers, and books")
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  hall register MBR-001 BOOK-001 --tier 1")
			fmt.Println("  hall candidates BOOK-001 --tier 1")

			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "seed demo members, employers, and books")
	return cmd
}
