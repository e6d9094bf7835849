package calculator

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/travelstats/internal/models"
)

// PersonalStats holds the six statistics on the personal stats card. Pointer
// fields are nil when nothing qualifies.
type PersonalStats struct {
	OrganizedCount      int
	ParticipatedCount   int
	TopCoParticipant    *CoParticipant
	BiggestSpend        *EventSpend
	LongestTrip         *TripLength
	MostRecentOrganized *RecentEvent
}

// CoParticipant is the person who shows up most often in splits.
type CoParticipant struct {
	UserID string
	Splits int
}

// EventSpend is the user's cumulative spend on one event.
type EventSpend struct {
	EventID   string
	EventName string
	Total     decimal.Decimal

	// Currency is the currency of the last expense counted for the event.
	Currency string

	// MixedCurrency is set when the counted expenses did not all share one
	// currency. Total is still a plain sum.
	MixedCurrency bool
}

// TripLength is the day spread of an event's expenses.
type TripLength struct {
	EventID   string
	EventName string
	Days      int
}

// RecentEvent is the most recently created event the user organized.
type RecentEvent struct {
	EventID   string
	EventName string
	CreatedAt time.Time
}

// CalculatePersonalStats computes every personal statistic for in.User.
// A nil user yields the zero value.
func CalculatePersonalStats(in Input, opts Options) PersonalStats {
	if in.User == nil {
		return PersonalStats{}
	}
	user := *in.User
	matches := opts.matcher(user)
	names := eventNames(in.Events)

	return PersonalStats{
		OrganizedCount:      organizedCount(user, in.Events),
		ParticipatedCount:   participatedCount(matches, in.Expenses),
		TopCoParticipant:    topCoParticipant(matches, in.Expenses),
		BiggestSpend:        biggestSpend(matches, in.Expenses, names),
		LongestTrip:         longestTrip(in.Expenses, names),
		MostRecentOrganized: mostRecentOrganized(user, in.Events),
	}
}

func eventNames(events []models.Event) map[string]string {
	names := make(map[string]string, len(events))
	for _, e := range events {
		names[e.ID] = e.Name
	}
	return names
}

func organizedCount(user models.User, events []models.Event) int {
	n := 0
	for _, e := range events {
		if user.IsOrganizerOf(e) {
			n++
		}
	}
	return n
}

func participatedCount(matches func(string) bool, expenses []models.Expense) int {
	seen := make(map[string]struct{})
	for _, exp := range expenses {
		for _, sp := range exp.Splits {
			if matches(sp.UserID) {
				seen[exp.EventID] = struct{}{}
				break
			}
		}
	}
	return len(seen)
}

func topCoParticipant(matches func(string) bool, expenses []models.Expense) *CoParticipant {
	tally := make(map[string]int)
	for _, exp := range expenses {
		for _, sp := range exp.Splits {
			if sp.UserID == "" || matches(sp.UserID) {
				continue
			}
			tally[sp.UserID]++
		}
	}

	var best *CoParticipant
	for id, n := range tally {
		if best == nil || n > best.Splits || (n == best.Splits && id < best.UserID) {
			best = &CoParticipant{UserID: id, Splits: n}
		}
	}
	return best
}

func biggestSpend(matches func(string) bool, expenses []models.Expense, names map[string]string) *EventSpend {
	totals := make(map[string]*EventSpend)
	for _, exp := range expenses {
		if !matches(exp.PaidBy) {
			continue
		}
		s, ok := totals[exp.EventID]
		if !ok {
			s = &EventSpend{EventID: exp.EventID, EventName: names[exp.EventID], Total: decimal.Zero, Currency: exp.Currency}
			totals[exp.EventID] = s
		}
		if exp.Currency != s.Currency {
			s.MixedCurrency = true
		}
		s.Total = s.Total.Add(exp.Amount)
		s.Currency = exp.Currency
	}

	var best *EventSpend
	for id, s := range totals {
		if best == nil {
			best = s
			continue
		}
		switch s.Total.Cmp(best.Total) {
		case 1:
			best = s
		case 0:
			if id < best.EventID {
				best = s
			}
		}
	}
	return best
}

func longestTrip(expenses []models.Expense, names map[string]string) *TripLength {
	type span struct {
		first, last time.Time
		count       int
	}
	spans := make(map[string]*span)
	for _, exp := range expenses {
		at := exp.OccurredAt()
		s, ok := spans[exp.EventID]
		if !ok {
			spans[exp.EventID] = &span{first: at, last: at, count: 1}
			continue
		}
		s.count++
		if at.Before(s.first) {
			s.first = at
		}
		if at.After(s.last) {
			s.last = at
		}
	}

	var best *TripLength
	for id, s := range spans {
		if s.count <= 1 {
			continue
		}
		days := int(math.Ceil(s.last.Sub(s.first).Hours() / 24))
		if best == nil || days > best.Days || (days == best.Days && id < best.EventID) {
			best = &TripLength{EventID: id, EventName: names[id], Days: days}
		}
	}
	return best
}

func mostRecentOrganized(user models.User, events []models.Event) *RecentEvent {
	var best *RecentEvent
	for _, e := range events {
		if !user.IsOrganizerOf(e) {
			continue
		}
		if best == nil || e.CreatedAt.After(best.CreatedAt) ||
			(e.CreatedAt.Equal(best.CreatedAt) && e.ID < best.EventID) {
			best = &RecentEvent{EventID: e.ID, EventName: e.Name, CreatedAt: e.CreatedAt}
		}
	}
	return best
}
