package sqlite

import (
	"database/sql"
	"time"
)

// dateLayout is the storage format for date-only TEXT columns.
const dateLayout = "2006-01-02"

func dateString(t time.Time) string {
	return t.Format(dateLayout)
}

func nullDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
