// Package observe carries structured events out of the stats engine and the
// participation tracker without tying them to a particular output channel.
package observe

import (
	"context"
	"log/slog"
	"time"
)

// Kind names an emitted event.
type Kind string

const (
	// KindStatsComputed is emitted once per Engine.Compute call.
	KindStatsComputed Kind = "stats.computed"
	// KindFetchStarted is emitted when a participation refresh is issued.
	KindFetchStarted Kind = "participation.fetch_started"
	// KindFetchApplied is emitted when a fetch result replaced the snapshot.
	KindFetchApplied Kind = "participation.fetch_applied"
	// KindFetchFailed is emitted when a fetch failed and the snapshot was emptied.
	KindFetchFailed Kind = "participation.fetch_failed"
	// KindStaleDiscarded is emitted when a response arrived for an outdated request.
	KindStaleDiscarded Kind = "participation.stale"
)

// Event is a single structured observation.
type Event struct {
	Kind       Kind
	UserID     string
	Generation uint64
	Count      int
	Duration   time.Duration
	Err        error
}

// Observer receives events. Implementations must be safe for concurrent use.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, ev Event) { f(ctx, ev) }

// Nop discards every event.
var Nop Observer = ObserverFunc(func(context.Context, Event) {})

// Multi fans events out to every non-nil observer in order.
func Multi(observers ...Observer) Observer {
	var list []Observer
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return ObserverFunc(func(ctx context.Context, ev Event) {
		for _, o := range list {
			o.Observe(ctx, ev)
		}
	})
}

// OrNop returns o, or Nop when o is nil.
func OrNop(o Observer) Observer {
	if o == nil {
		return Nop
	}
	return o
}

// Logger returns an Observer that writes events to logger. Failures are logged
// at warn level, stale discards at info, everything else at debug.
func Logger(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return ObserverFunc(func(ctx context.Context, ev Event) {
		attrs := []slog.Attr{
			slog.String("event", string(ev.Kind)),
			slog.String("user_id", ev.UserID),
		}
		if ev.Generation != 0 {
			attrs = append(attrs, slog.Uint64("generation", ev.Generation))
		}
		if ev.Count != 0 {
			attrs = append(attrs, slog.Int("count", ev.Count))
		}
		if ev.Duration != 0 {
			attrs = append(attrs, slog.Int64("duration_ms", ev.Duration.Milliseconds()))
		}

		level := slog.LevelDebug
		switch ev.Kind {
		case KindFetchFailed:
			level = slog.LevelWarn
			if ev.Err != nil {
				attrs = append(attrs, slog.String("error", ev.Err.Error()))
			}
		case KindStaleDiscarded:
			level = slog.LevelInfo
		}
		logger.LogAttrs(ctx, level, "observed", attrs...)
	})
}
