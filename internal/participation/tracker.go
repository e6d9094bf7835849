// Package participation keeps the participation snapshot the stats engine
// resolves membership from. Fetches are asynchronous and tagged with a
// generation token so that a slow response never overwrites the result of a
// newer request.
package participation

import (
	"context"
	"sync"
	"time"

	"github.com/mmynk/travelstats/internal/models"
	"github.com/mmynk/travelstats/internal/observe"
)

// Fetcher loads the participation records of a user, looking the user up by
// both of its identifiers.
type Fetcher interface {
	FetchParticipations(ctx context.Context, user models.User) ([]models.Participation, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, user models.User) ([]models.Participation, error)

// FetchParticipations calls f.
func (f FetcherFunc) FetchParticipations(ctx context.Context, user models.User) ([]models.Participation, error) {
	return f(ctx, user)
}

// Snapshot is an immutable view of the tracker state.
type Snapshot struct {
	// UserID is the primary id of the user the records were fetched for.
	UserID string

	Records []models.Participation

	// Generation is the token of the request whose result is held.
	Generation uint64

	// Loading is set while the latest issued request has not resolved.
	Loading bool

	// Failed is set when the latest applied fetch failed. Records is empty then.
	Failed bool

	UpdatedAt time.Time
}

// Tracker holds the single participation snapshot.
type Tracker struct {
	fetcher  Fetcher
	observer observe.Observer
	now      func() time.Time

	mu     sync.RWMutex
	latest uint64
	snap   Snapshot
}

// NewTracker creates a Tracker with an empty, not-loading snapshot.
func NewTracker(fetcher Fetcher, observer observe.Observer) *Tracker {
	return &Tracker{
		fetcher:  fetcher,
		observer: observe.OrNop(observer),
		now:      time.Now,
	}
}

// Snapshot returns the current snapshot.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}

// Refresh fetches the participation records of user and, if no newer request
// was issued in the meantime, replaces the snapshot with the result. A failed
// fetch replaces the snapshot with an empty one. It reports whether the result
// was applied; errors are only reported to the observer.
func (t *Tracker) Refresh(ctx context.Context, user models.User) bool {
	gen := t.begin(user)
	t.observer.Observe(ctx, observe.Event{Kind: observe.KindFetchStarted, UserID: user.ID, Generation: gen})

	start := t.now()
	records, err := t.fetcher.FetchParticipations(ctx, user)
	elapsed := t.now().Sub(start)

	return t.apply(ctx, user, gen, records, err, elapsed)
}

// RefreshAsync runs Refresh in a new goroutine. The returned channel receives
// Refresh's result and is then closed.
func (t *Tracker) RefreshAsync(ctx context.Context, user models.User) <-chan bool {
	done := make(chan bool, 1)
	go func() {
		defer close(done)
		done <- t.Refresh(ctx, user)
	}()
	return done
}

func (t *Tracker) begin(user models.User) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest++
	t.snap.Loading = true
	if t.snap.UserID != user.ID {
		// A different identity must never see the previous user's records.
		t.snap.UserID = user.ID
		t.snap.Records = nil
		t.snap.Failed = false
	}
	return t.latest
}

func (t *Tracker) apply(ctx context.Context, user models.User, gen uint64, records []models.Participation, err error, elapsed time.Duration) bool {
	t.mu.Lock()
	if gen != t.latest {
		t.mu.Unlock()
		t.observer.Observe(ctx, observe.Event{
			Kind:       observe.KindStaleDiscarded,
			UserID:     user.ID,
			Generation: gen,
			Count:      len(records),
			Duration:   elapsed,
			Err:        err,
		})
		return false
	}

	snap := Snapshot{
		UserID:     user.ID,
		Generation: gen,
		UpdatedAt:  t.now(),
	}
	if err != nil {
		snap.Records = []models.Participation{}
		snap.Failed = true
	} else {
		snap.Records = append([]models.Participation(nil), records...)
	}
	t.snap = snap
	t.mu.Unlock()

	ev := observe.Event{UserID: user.ID, Generation: gen, Count: len(snap.Records), Duration: elapsed}
	if err != nil {
		ev.Kind = observe.KindFetchFailed
		ev.Err = err
	} else {
		ev.Kind = observe.KindFetchApplied
	}
	t.observer.Observe(ctx, ev)
	return true
}
