package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/hall/internal/config"
	"github.com/example/hall/internal/core/window"
	"github.com/example/hall/internal/db"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the hall environment",
		Long: `Environment health check for hall.

Validates:
- Database file and schema migrations
- Configuration (window times, processing order)

Examples:
  hall doctor              # Run full health check
  hall doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := []CheckResult{
				checkDatabase(),
				checkConfig(),
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
				}
				if !quiet {
					fmt.Printf("%s %s\n", statusColor(r.Status).Sprint(r.Status), r.Name)
					if r.Status != "✓" && r.Details != "" {
						fmt.Printf("    %s\n", r.Details)
					}
				}
			}

			if hasErrors {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "exit code only, no output")
	return cmd
}

func statusColor(status string) *color.Color {
	switch status {
	case "✓":
		return color.New(color.FgGreen)
	case "⚠":
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func checkDatabase() CheckResult {
	dbPath, err := db.GetDBPath()
	if err != nil {
		return CheckResult{Name: "database", Status: "✗", Details: err.Error()}
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return CheckResult{Name: "database", Status: "✗", Details: fmt.Sprintf("%s missing: run 'hall init'", dbPath)}
	}

	database, err := db.GetDB()
	if err != nil {
		return CheckResult{Name: "database", Status: "✗", Details: err.Error()}
	}
	if err := database.Ping(); err != nil {
		return CheckResult{Name: "database", Status: "✗", Details: err.Error()}
	}

	return CheckResult{Name: "database", Status: "✓"}
}

func checkConfig() CheckResult {
	cfg, err := config.Load()
	if err != nil {
		return CheckResult{Name: "configuration", Status: "✗", Details: err.Error()}
	}

	for _, raw := range []string{cfg.BidOpen, cfg.BidClose, cfg.Cutoff} {
		if _, err := window.ParseMinute(raw); err != nil {
			return CheckResult{Name: "configuration", Status: "✗", Details: err.Error()}
		}
	}
	if len(cfg.ProcessingOrder) == 0 {
		return CheckResult{Name: "configuration", Status: "⚠", Details: "no processing order configured; cycle commands disabled"}
	}
	for _, g := range cfg.ProcessingOrder {
		if _, err := window.ParseMinute(g.Start); err != nil {
			return CheckResult{Name: "configuration", Status: "✗", Details: fmt.Sprintf("group %s: %v", g.Name, err)}
		}
	}

	return CheckResult{Name: "configuration", Status: "✓"}
}
