package amqp

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/mmynk/travelstats/internal/models"
	"github.com/mmynk/travelstats/internal/observe"
	"github.com/mmynk/travelstats/internal/participation"
	"github.com/mmynk/travelstats/internal/storage"
)

type userReader struct {
	storage.Reader
	users map[string]models.User
	err   error
}

func (r userReader) GetUser(_ context.Context, id string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func TestRefreshHandler(t *testing.T) {
	var fetches atomic.Int32
	fetcher := participation.FetcherFunc(func(context.Context, models.User) ([]models.Participation, error) {
		fetches.Add(1)
		return []models.Participation{{EventID: "e1", UserID: "u1"}}, nil
	})
	registry := participation.NewRegistry(fetcher, observe.Nop)
	reader := userReader{users: map[string]models.User{"u1": {ID: "u1"}}}
	handle := RefreshHandler(reader, registry)
	ctx := context.Background()

	if err := handle(ctx, NewParticipationChangedMessage("u1", "e1", ActionJoined)); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if fetches.Load() != 1 {
		t.Errorf("fetches = %d, want 1", fetches.Load())
	}
	if snap := registry.Tracker("u1").Snapshot(); len(snap.Records) != 1 {
		t.Errorf("records = %+v, want 1", snap.Records)
	}

	t.Run("unknown user is skipped", func(t *testing.T) {
		if err := handle(ctx, NewParticipationChangedMessage("ghost", "", ActionLeft)); err != nil {
			t.Errorf("handler error = %v, want nil", err)
		}
		if fetches.Load() != 1 {
			t.Errorf("fetches = %d, want 1", fetches.Load())
		}
	})

	t.Run("store failure is returned", func(t *testing.T) {
		failing := RefreshHandler(userReader{err: errors.New("db down")}, registry)
		if err := failing(ctx, NewParticipationChangedMessage("u1", "", ActionLeft)); err == nil {
			t.Error("expected error")
		}
	})
}
