package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/hall/internal/ports/primary"
)

// ActivityAdapter renders the audit/compliance activity stream.
type ActivityAdapter struct {
	service primary.ActivityService
	out     io.Writer
}

// NewActivityAdapter creates a new ActivityAdapter with the given service.
func NewActivityAdapter(service primary.ActivityService, out io.Writer) *ActivityAdapter {
	return &ActivityAdapter{
		service: service,
		out:     out,
	}
}

// Stream lists activity rows matching the filter, oldest first.
func (a *ActivityAdapter) Stream(ctx context.Context, filter primary.ActivityFilter) ([]*primary.Activity, error) {
	activities, err := a.service.Stream(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to stream activity: %w", err)
	}

	if len(activities) == 0 {
		fmt.Fprintln(a.out, "No activity found.")
		return activities, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "WHEN\tEVENT\tMEMBER\tREGISTRATION\tACTOR\tDETAIL")
	fmt.Fprintln(w, "----\t-----\t------\t------------\t-----\t------")

	for _, act := range activities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			act.OccurredAt.Format("2006-01-02 15:04"),
			act.Event,
			act.MemberID,
			act.RegistrationID,
			act.Actor,
			act.Detail,
		)
	}

	w.Flush()
	return activities, nil
}
