// Package calculator derives per-user financial and behavioral statistics
// from event, expense and participation snapshots. Everything here is pure:
// inputs are never mutated and equal inputs always give equal outputs.
package calculator

import (
	"context"
	"time"

	"github.com/mmynk/travelstats/internal/models"
	"github.com/mmynk/travelstats/internal/observe"
)

// Input is one snapshot triple plus the participation list it is evaluated against.
type Input struct {
	// User is nil while the identity is unknown.
	User *models.User

	// Events and Expenses are nil while not yet loaded.
	Events   []models.Event
	Expenses []models.Expense

	// Participations may be empty while loading or after a failed fetch.
	Participations []models.Participation

	// Loading marks a snapshot that is still being fetched. Financial figures
	// resolve to zero while it is set.
	Loading bool
}

// Options tunes identity matching. The zero value reproduces the behavior
// users already see on the dashboard.
type Options struct {
	// AliasAwareSelfShare excludes every split naming the user by ID or
	// RealID from expected payments. When false only the split recorded
	// under the expense's PaidBy value counts as the payer's own share.
	AliasAwareSelfShare bool

	// PersonalStatsAliasAware makes the participated count, co-participant
	// tally and biggest spend match the user by ID or RealID. When false only
	// the primary ID matches those three stats.
	PersonalStatsAliasAware bool
}

// Summary bundles everything the dashboard shows.
type Summary struct {
	Financial FinancialSummary
	Personal  PersonalStats
}

// Engine computes summaries with fixed options and reports to an observer.
type Engine struct {
	opts     Options
	observer observe.Observer
	now      func() time.Time
}

// NewEngine creates an Engine. A nil observer discards events.
func NewEngine(opts Options, observer observe.Observer) *Engine {
	return &Engine{
		opts:     opts,
		observer: observe.OrNop(observer),
		now:      time.Now,
	}
}

// Options returns the engine's options.
func (e *Engine) Options() Options {
	return e.opts
}

// Compute runs every aggregation over in.
func (e *Engine) Compute(ctx context.Context, in Input) Summary {
	start := e.now()
	s := Summary{
		Financial: CalculateFinancialSummary(in, e.opts),
		Personal:  CalculatePersonalStats(in, e.opts),
	}

	ev := observe.Event{
		Kind:     observe.KindStatsComputed,
		Count:    len(in.Expenses),
		Duration: e.now().Sub(start),
	}
	if in.User != nil {
		ev.UserID = in.User.ID
	}
	e.observer.Observe(ctx, ev)
	return s
}

// matcher returns the identity predicate the personal statistics use.
func (o Options) matcher(u models.User) func(string) bool {
	if o.PersonalStatsAliasAware {
		return u.Is
	}
	return u.IsPrimary
}
