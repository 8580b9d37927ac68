// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/hall/internal/ctxutil"
	"github.com/example/hall/internal/ports/secondary"
)

// execer covers *sql.DB and *sql.Tx so activity writes can join an open
// transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// appendActivity writes the registration activity row and its immutable
// audit-log mirror. Both inserts ride whatever transaction e belongs to;
// the activity row goes first so a partial failure can never leave a state
// change unaudited. Rows are never modified after insertion.
func appendActivity(ctx context.Context, e execer, act *secondary.ActivityRecord) error {
	if act.ID == "" {
		act.ID = uuid.NewString()
	}
	if act.Actor == "" {
		act.Actor = ctxutil.ActorFromContext(ctx)
	}
	if act.OccurredAt.IsZero() {
		act.OccurredAt = time.Now()
	}

	var regID, bookID, detail, actor sql.NullString
	if act.RegistrationID != "" {
		regID = sql.NullString{String: act.RegistrationID, Valid: true}
	}
	if act.BookID != "" {
		bookID = sql.NullString{String: act.BookID, Valid: true}
	}
	if act.Detail != "" {
		detail = sql.NullString{String: act.Detail, Valid: true}
	}
	if act.Actor != "" {
		actor = sql.NullString{String: act.Actor, Valid: true}
	}

	_, err := e.ExecContext(ctx,
		"INSERT INTO registration_activity (id, registration_id, member_id, book_id, event, detail, actor, occurred_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		act.ID, regID, act.MemberID, bookID, act.Event, detail, actor, act.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write activity: %w", err)
	}

	entityType, entityID := "registration", act.RegistrationID
	if entityID == "" {
		entityType, entityID = "member", act.MemberID
	}

	_, err = e.ExecContext(ctx,
		"INSERT INTO audit_log (id, entity_type, entity_id, event, detail, actor, occurred_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		uuid.NewString(), entityType, entityID, act.Event, detail, actor, act.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to mirror audit log: %w", err)
	}

	return nil
}
