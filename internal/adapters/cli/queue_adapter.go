// Package cli contains thin presentation adapters that translate CLI
// operations to primary port calls and render the results.
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/hall/internal/ports/primary"
)

// QueueAdapter is a thin adapter that translates CLI operations to
// QueueService calls. It depends only on the QueueService interface,
// enabling easy testing with mocks.
type QueueAdapter struct {
	service primary.QueueService
	out     io.Writer
}

// NewQueueAdapter creates a new QueueAdapter with the given service.
func NewQueueAdapter(service primary.QueueService, out io.Writer) *QueueAdapter {
	return &QueueAdapter{
		service: service,
		out:     out,
	}
}

// Register places a member on a book tier and prints the assigned position.
func (a *QueueAdapter) Register(ctx context.Context, memberID, bookID string, tier int) (*primary.Registration, error) {
	reg, err := a.service.Register(ctx, primary.RegisterRequest{
		MemberID: memberID,
		BookID:   bookID,
		Tier:     tier,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	fmt.Fprintf(a.out, "Registered %s on %s (tier %d) as %s at position %s\n",
		reg.MemberID, reg.BookID, reg.Tier, reg.ID, reg.Position)
	return reg, nil
}

// Candidates lists the active queue for a book tier in dispatch order.
func (a *QueueAdapter) Candidates(ctx context.Context, bookID string, tier int) ([]*primary.Registration, error) {
	regs, err := a.service.ListCandidates(ctx, bookID, tier)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	if len(regs) == 0 {
		fmt.Fprintf(a.out, "No active registrations on %s tier %d.\n", bookID, tier)
		return regs, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "POS\tID\tMEMBER\tPOSITION\tMARKS\tREGISTERED")
	fmt.Fprintln(w, "---\t--\t------\t--------\t-----\t----------")

	for i, reg := range regs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			i+1,
			reg.ID,
			reg.MemberID,
			reg.Position,
			reg.CheckMarks,
			reg.RegisteredAt.Format("2006-01-02"),
		)
	}

	w.Flush()
	return regs, nil
}

// Show displays details for a single registration.
func (a *QueueAdapter) Show(ctx context.Context, registrationID string) (*primary.Registration, error) {
	reg, err := a.service.GetRegistration(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	fmt.Fprintf(a.out, "\nRegistration: %s\n", reg.ID)
	fmt.Fprintf(a.out, "Member:     %s\n", reg.MemberID)
	fmt.Fprintf(a.out, "Book:       %s (tier %d)\n", reg.BookID, reg.Tier)
	fmt.Fprintf(a.out, "Position:   %s\n", reg.Position)
	fmt.Fprintf(a.out, "Status:     %s\n", reg.Status)
	fmt.Fprintf(a.out, "Marks:      %d\n", reg.CheckMarks)
	if reg.RollOffReason != "" {
		fmt.Fprintf(a.out, "Roll-off:   %s\n", reg.RollOffReason)
	}
	fmt.Fprintf(a.out, "Registered: %s\n", reg.RegisteredAt.Format("2006-01-02"))
	fmt.Fprintln(a.out)

	return reg, nil
}

// ReSign refreshes the registration's sort key and prints the new position.
func (a *QueueAdapter) ReSign(ctx context.Context, registrationID string) (*primary.Registration, error) {
	reg, err := a.service.ReSign(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-sign: %w", err)
	}

	fmt.Fprintf(a.out, "Re-signed %s at position %s\n", reg.ID, reg.Position)
	return reg, nil
}

// RollOff removes a registration from its book.
func (a *QueueAdapter) RollOff(ctx context.Context, registrationID, reason string) error {
	if err := a.service.RollOff(ctx, registrationID, reason); err != nil {
		return fmt.Errorf("failed to roll off: %w", err)
	}

	fmt.Fprintf(a.out, "Rolled off %s (%s)\n", registrationID, reason)
	return nil
}

// Resign closes a registration at the member's request.
func (a *QueueAdapter) Resign(ctx context.Context, registrationID string) error {
	if err := a.service.Resign(ctx, registrationID); err != nil {
		return fmt.Errorf("failed to resign: %w", err)
	}

	fmt.Fprintf(a.out, "Resigned %s\n", registrationID)
	return nil
}

// Reinstate returns a rolled-off registration to its book.
func (a *QueueAdapter) Reinstate(ctx context.Context, registrationID string) (*primary.Registration, error) {
	reg, err := a.service.Reinstate(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to reinstate: %w", err)
	}

	fmt.Fprintf(a.out, "Reinstated %s at position %s\n", reg.ID, reg.Position)
	return reg, nil
}
