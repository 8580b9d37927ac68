package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/example/hall/internal/ports/primary"
)

// DispatchAdapter is a thin adapter that translates CLI operations to
// DispatchService calls.
type DispatchAdapter struct {
	service primary.DispatchService
	out     io.Writer
}

// NewDispatchAdapter creates a new DispatchAdapter with the given service.
func NewDispatchAdapter(service primary.DispatchService, out io.Writer) *DispatchAdapter {
	return &DispatchAdapter{
		service: service,
		out:     out,
	}
}

// Submit takes a labor request and prints its intake classification.
func (a *DispatchAdapter) Submit(ctx context.Context, in primary.SubmitRequestInput) (*primary.LaborRequest, error) {
	req, err := a.service.SubmitRequest(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to submit request: %w", err)
	}

	fmt.Fprintf(a.out, "Submitted %s: %d x %s on %s for %s\n",
		req.ID, req.Quantity, req.Classification, req.BookID, req.EmployerID)
	if !req.ScheduledFor.IsZero() {
		fmt.Fprintf(a.out, "Past cutoff: scheduled for the %s cycle\n",
			req.ScheduledFor.Format("2006-01-02"))
	}
	return req, nil
}

// Assign runs the matching algorithm and renders the walk outcome,
// dispatches and skips alike.
func (a *DispatchAdapter) Assign(ctx context.Context, requestID string) (*primary.AssignResult, error) {
	result, err := a.service.Assign(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign: %w", err)
	}

	if result.Deferred {
		fmt.Fprintf(a.out, "Request %s deferred past cutoff: scheduled for %s\n",
			result.RequestID, result.ScheduledFor.Format("2006-01-02"))
		return result, nil
	}

	if len(result.Dispatches) > 0 {
		w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "DISPATCH\tREGISTRATION\tMEMBER\tSTART")
		fmt.Fprintln(w, "--------\t------------\t------\t-----")
		for _, d := range result.Dispatches {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				d.ID, d.RegistrationID, d.MemberID, d.StartDate.Format("2006-01-02"))
		}
		w.Flush()
	}

	for _, skip := range result.Skips {
		line := fmt.Sprintf("Skipped %s (%s): %s", skip.RegistrationID, skip.MemberID, skip.Reason)
		if !skip.Until.IsZero() {
			line += fmt.Sprintf(" until %s", skip.Until.Format("2006-01-02"))
		}
		fmt.Fprintln(a.out, line)
	}

	switch {
	case result.Filled:
		fmt.Fprintf(a.out, "Request %s %s.\n", result.RequestID,
			color.New(color.FgGreen).Sprint("filled"))
	case len(result.Dispatches) > 0:
		fmt.Fprintf(a.out, "Request %s %s (%d dispatched).\n", result.RequestID,
			color.New(color.FgYellow).Sprint("partially filled"), len(result.Dispatches))
	default:
		fmt.Fprintf(a.out, "Request %s: no eligible candidates.\n", result.RequestID)
	}

	return result, nil
}

// Show displays a labor request with its dispatch tally.
func (a *DispatchAdapter) Show(ctx context.Context, requestID string) (*primary.LaborRequest, error) {
	req, err := a.service.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	fmt.Fprintf(a.out, "\nRequest: %s\n", req.ID)
	fmt.Fprintf(a.out, "Employer:   %s\n", req.EmployerID)
	fmt.Fprintf(a.out, "Book:       %s (tier %d)\n", req.BookID, req.Tier)
	fmt.Fprintf(a.out, "Class:      %s\n", req.Classification)
	fmt.Fprintf(a.out, "Quantity:   %d (%d dispatched)\n", req.Quantity, req.Dispatched)
	fmt.Fprintf(a.out, "Status:     %s\n", req.Status)
	if req.NamedMemberID != "" {
		fmt.Fprintf(a.out, "By name:    %s\n", req.NamedMemberID)
	}
	if !req.ScheduledFor.IsZero() {
		fmt.Fprintf(a.out, "Scheduled:  %s\n", req.ScheduledFor.Format("2006-01-02"))
	}
	fmt.Fprintf(a.out, "Start:      %s\n", req.StartDate.Format("2006-01-02"))
	fmt.Fprintln(a.out)

	return req, nil
}

// Cancel cancels the unfilled remainder of a request.
func (a *DispatchAdapter) Cancel(ctx context.Context, requestID string) error {
	if err := a.service.CancelRequest(ctx, requestID); err != nil {
		return fmt.Errorf("failed to cancel request: %w", err)
	}

	fmt.Fprintf(a.out, "Cancelled %s\n", requestID)
	return nil
}

// Terminate closes a dispatch and reports the short-call classification.
func (a *DispatchAdapter) Terminate(ctx context.Context, dispatchID, reason string, endDate time.Time) (*primary.Dispatch, error) {
	d, err := a.service.Terminate(ctx, primary.TerminateInput{
		DispatchID: dispatchID,
		Reason:     reason,
		EndDate:    endDate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to terminate dispatch: %w", err)
	}

	fmt.Fprintf(a.out, "Terminated %s (%s)\n", d.ID, d.TerminationReason)
	if d.ShortCall {
		fmt.Fprintf(a.out, "Short call: %s returns to book position\n", d.MemberID)
	}
	return d, nil
}
