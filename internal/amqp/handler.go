package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/travelstats/internal/participation"
	"github.com/mmynk/travelstats/internal/storage"
)

// RefreshHandler refreshes the participation snapshot of the user named in
// each message. Unknown users are acknowledged and skipped.
func RefreshHandler(users storage.Reader, registry *participation.Registry) Handler {
	return func(ctx context.Context, msg *ParticipationChangedMessage) error {
		user, err := users.GetUser(ctx, msg.UserID)
		if errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "Participation change for unknown user", "user_id", msg.UserID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("get user %s: %w", msg.UserID, err)
		}
		registry.Refresh(ctx, *user)
		return nil
	}
}
