package cli

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/example/hall/internal/wire"
)

// CycleCmd returns the cycle command
func CycleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Run and inspect the morning referral cycle",
		Long: `The referral cycle processes deferred labor requests group by group in
the configured order each morning.`,
	}

	cmd.AddCommand(cycleRunCmd())
	cmd.AddCommand(cycleOrderCmd())
	cmd.AddCommand(cycleServeCmd())
	addActorFlag(cmd)
	return cmd
}

func cycleRunCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "run [group]",
		Short: "Process one group's scheduled requests now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDate(date)
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}

			report, err := wire.CycleService().RunGroup(commandContext(cmd), args[0], day)
			if err != nil {
				return fmt.Errorf("failed to run cycle: %w", err)
			}

			fmt.Printf("Cycle %s: %d requests, %d dispatched, %d partial\n",
				report.Group, report.Requests, report.Dispatched, report.Partial)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "cycle date (YYYY-MM-DD, default today)")
	return cmd
}

func cycleOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Show the configured group processing order",
		RunE: func(cmd *cobra.Command, args []string) error {
			slots := wire.CycleService().ProcessingOrder(commandContext(cmd))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "GROUP\tSTART")
			fmt.Fprintln(w, "-----\t-----")
			for _, s := range slots {
				fmt.Fprintf(w, "%s\t%s\n", s.Name, s.Start)
			}
			w.Flush()
			return nil
		},
	}
}

func cycleServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the cycle scheduler daemon",
		Long: `Run the cycle scheduler: each book group's referral cycle fires daily
at its configured start time, and Prometheus metrics are served on the
configured address until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			service := wire.CycleService()
			logger := wire.Logger()

			scheduler := cron.New()
			for _, slot := range service.ProcessingOrder(ctx) {
				slot := slot
				spec, err := cronSpec(slot.Start)
				if err != nil {
					return fmt.Errorf("invalid start for group %s: %w", slot.Name, err)
				}
				_, err = scheduler.AddFunc(spec, func() {
					today := time.Now()
					day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
					if _, err := service.RunGroup(ctx, slot.Name, day); err != nil {
						logger.Sugar().Errorw("scheduled cycle failed", "group", slot.Name, "error", err)
					}
				})
				if err != nil {
					return fmt.Errorf("failed to schedule group %s: %w", slot.Name, err)
				}
				fmt.Printf("Scheduled %s at %s daily\n", slot.Name, slot.Start)
			}

			addr := wire.Config().MetricsAddr
			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				if err := http.ListenAndServe(addr, mux); err != nil {
					logger.Sugar().Errorw("metrics server stopped", "error", err)
				}
			}()
			fmt.Printf("Serving metrics on %s/metrics\n", addr)

			scheduler.Start()
			defer scheduler.Stop()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			fmt.Println("Shutting down")
			return nil
		},
	}
}

// cronSpec converts a "15:04" start time to a daily cron expression.
func cronSpec(start string) (string, error) {
	t, err := time.Parse("15:04", start)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}
