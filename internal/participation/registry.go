package participation

import (
	"context"
	"sync"
	"time"

	"github.com/mmynk/travelstats/internal/models"
	"github.com/mmynk/travelstats/internal/observe"
)

// Registry keeps one Tracker per user, keyed by primary id. Trackers stay
// until Prune drops them.
type Registry struct {
	fetcher  Fetcher
	observer observe.Observer
	now      func() time.Time

	mu       sync.Mutex
	trackers map[string]*Tracker
}

// NewRegistry creates an empty Registry.
func NewRegistry(fetcher Fetcher, observer observe.Observer) *Registry {
	return &Registry{
		fetcher:  fetcher,
		observer: observe.OrNop(observer),
		now:      time.Now,
		trackers: make(map[string]*Tracker),
	}
}

// Tracker returns the tracker for userID, creating it on first use.
func (r *Registry) Tracker(userID string) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trackers[userID]
	if !ok {
		t = NewTracker(r.fetcher, r.observer)
		r.trackers[userID] = t
	}
	return t
}

// Refresh refreshes the tracker of user.
func (r *Registry) Refresh(ctx context.Context, user models.User) bool {
	return r.Tracker(user.ID).Refresh(ctx, user)
}

// Snapshot returns the snapshot for user, fetching synchronously when no
// fetch has been applied yet.
func (r *Registry) Snapshot(ctx context.Context, user models.User) Snapshot {
	t := r.Tracker(user.ID)
	snap := t.Snapshot()
	if snap.Generation == 0 && !snap.Loading {
		t.Refresh(ctx, user)
		snap = t.Snapshot()
	}
	return snap
}

// Len returns the number of tracked users.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trackers)
}

// Prune drops trackers that are not loading and whose snapshot was last
// updated more than idle ago. It returns the number dropped.
func (r *Registry) Prune(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for id, t := range r.trackers {
		snap := t.Snapshot()
		if snap.Loading || snap.UpdatedAt.After(cutoff) {
			continue
		}
		delete(r.trackers, id)
		dropped++
	}
	return dropped
}

// PruneEvery runs Prune(idle) every interval until ctx is done.
func (r *Registry) PruneEvery(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Prune(idle)
		}
	}
}
