package app

import (
	"github.com/example/hall/internal/core/queue"
	"github.com/example/hall/internal/ports/primary"
	"github.com/example/hall/internal/ports/secondary"
)

// recordToRegistration maps a persistence record onto the port boundary,
// rendering the legacy fixed-point position for display.
func recordToRegistration(r *secondary.RegistrationRecord) *primary.Registration {
	key := queue.SortKey{DaySerial: r.DaySerial, TieBreak: r.TieBreak}
	return &primary.Registration{
		ID:            r.ID,
		MemberID:      r.MemberID,
		BookID:        r.BookID,
		Tier:          r.Tier,
		Position:      key.APN().StringFixed(2),
		DaySerial:     r.DaySerial,
		TieBreak:      r.TieBreak,
		Status:        r.Status,
		CheckMarks:    r.CheckMarks,
		RollOffReason: r.RollOffReason,
		RegisteredAt:  r.RegisteredAt,
	}
}

func recordToRequest(r *secondary.RequestRecord, dispatched int) *primary.LaborRequest {
	return &primary.LaborRequest{
		ID:             r.ID,
		EmployerID:     r.EmployerID,
		BookID:         r.BookID,
		Tier:           r.Tier,
		Classification: r.Classification,
		Quantity:       r.Quantity,
		NamedMemberID:  r.NamedMemberID,
		Status:         r.Status,
		ScheduledFor:   r.ScheduledFor,
		SubmittedAt:    r.SubmittedAt,
		StartDate:      r.StartDate,
		Dispatched:     dispatched,
	}
}

func recordToDispatch(d *secondary.DispatchRecord) *primary.Dispatch {
	return &primary.Dispatch{
		ID:                d.ID,
		RegistrationID:    d.RegistrationID,
		MemberID:          d.MemberID,
		RequestID:         d.RequestID,
		EmployerID:        d.EmployerID,
		StartDate:         d.StartDate,
		ActualEnd:         d.ActualEnd,
		ShortCall:         d.ShortCall,
		TerminationReason: d.TerminationReason,
		Status:            d.Status,
	}
}

func recordToBid(b *secondary.BidRecord) *primary.Bid {
	return &primary.Bid{
		ID:          b.ID,
		MemberID:    b.MemberID,
		RequestID:   b.RequestID,
		Outcome:     b.Outcome,
		SubmittedAt: b.SubmittedAt,
		DecidedAt:   b.DecidedAt,
	}
}

func recordToActivity(a *secondary.ActivityRecord) *primary.Activity {
	return &primary.Activity{
		ID:             a.ID,
		RegistrationID: a.RegistrationID,
		MemberID:       a.MemberID,
		BookID:         a.BookID,
		Event:          a.Event,
		Detail:         a.Detail,
		Actor:          a.Actor,
		OccurredAt:     a.OccurredAt,
	}
}
