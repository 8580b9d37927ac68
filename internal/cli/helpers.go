// Package cli contains the cobra command tree for the hall binary.
package cli

import (
	"context"
	"os"
	"os/user"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/hall/internal/ctxutil"
)

const dateLayout = "2006-01-02"

// commandContext builds the context for one command invocation: the acting
// dispatcher comes from --actor, then HALL_ACTOR, then the OS user. Every
// activity and audit row records it.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	actor, _ := cmd.Flags().GetString("actor")
	if actor == "" {
		actor = os.Getenv("HALL_ACTOR")
	}
	if actor == "" {
		if u, err := user.Current(); err == nil {
			actor = u.Username
		}
	}

	return ctxutil.WithActor(ctx, actor)
}

// addActorFlag registers the shared --actor flag on a command.
func addActorFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String("actor", "", "acting dispatcher recorded on audit rows")
}

// parseDate parses a date flag value, defaulting to today when empty.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(dateLayout, value)
}
