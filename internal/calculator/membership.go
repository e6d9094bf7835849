package calculator

import (
	"sort"

	"github.com/mmynk/travelstats/internal/models"
)

// Membership is the set of event ids a user participates in.
type Membership map[string]struct{}

// Has reports whether eventID is in the set.
func (m Membership) Has(eventID string) bool {
	_, ok := m[eventID]
	return ok
}

// EventIDs returns the members sorted ascending.
func (m Membership) EventIDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResolveMembership returns the events in which user participates, matching
// records by either of the user's identifiers. An empty record list means no
// known participation, not an error.
func ResolveMembership(user models.User, records []models.Participation) Membership {
	m := make(Membership)
	for _, r := range records {
		if r.EventID == "" || !user.Is(r.UserID) {
			continue
		}
		m[r.EventID] = struct{}{}
	}
	return m
}
