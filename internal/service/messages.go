package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/travelstats/internal/calculator"
	"github.com/mmynk/travelstats/internal/display"
	"github.com/mmynk/travelstats/internal/models"
)

// UserRequest identifies the user whose data is requested.
type UserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserID returns the requested user id.
func (r *UserRequest) GetUserID() string { return r.UserID }

type FinancialSummary struct {
	ActiveEventsCount int               `json:"active_events_count"`
	ExpectedPayments  decimal.Decimal   `json:"expected_payments"`
	Display           display.Financial `json:"display"`
}

type CoParticipant struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	Splits      int    `json:"splits"`
}

type EventSpend struct {
	EventID       string          `json:"event_id"`
	EventName     string          `json:"event_name"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	MixedCurrency bool            `json:"mixed_currency,omitempty"`
}

type TripLength struct {
	EventID   string `json:"event_id"`
	EventName string `json:"event_name"`
	Days      int    `json:"days"`
}

type RecentEvent struct {
	EventID   string    `json:"event_id"`
	EventName string    `json:"event_name"`
	CreatedAt time.Time `json:"created_at"`
}

type PersonalStats struct {
	OrganizedCount      int              `json:"organized_count"`
	ParticipatedCount   int              `json:"participated_count"`
	TopCoParticipant    *CoParticipant   `json:"top_co_participant,omitempty"`
	BiggestSpend        *EventSpend      `json:"biggest_spend,omitempty"`
	LongestTrip         *TripLength      `json:"longest_trip,omitempty"`
	MostRecentOrganized *RecentEvent     `json:"most_recent_organized,omitempty"`
	Display             display.Personal `json:"display"`
}

// DashboardResponse carries both cards plus the state of the participation
// snapshot they were computed from.
type DashboardResponse struct {
	Financial FinancialSummary `json:"financial"`
	Personal  PersonalStats    `json:"personal"`

	Loading             bool   `json:"loading"`
	ParticipationFailed bool   `json:"participation_failed"`
	Generation          uint64 `json:"generation"`
}

// Event list tabs.
const (
	TabAll           = "all"
	TabActive        = "active"
	TabOrganized     = "organized"
	TabParticipating = "participating"
)

type ListEventsRequest struct {
	UserID string `json:"user_id"`
	Tab    string `json:"tab"`
}

// GetUserID returns the requested user id.
func (r *ListEventsRequest) GetUserID() string { return r.UserID }

type ListEventsResponse struct {
	Events []models.Event `json:"events"`
}

type ListExpensesRequest struct {
	UserID  string `json:"user_id"`
	EventID string `json:"event_id,omitempty"`
}

// GetUserID returns the requested user id.
func (r *ListExpensesRequest) GetUserID() string { return r.UserID }

type ListExpensesResponse struct {
	Expenses []models.Expense `json:"expenses"`
}

type GetEventBalancesRequest struct {
	EventID string `json:"event_id"`
}

type MemberBalance struct {
	UserID     string          `json:"user_id"`
	NetBalance decimal.Decimal `json:"net_balance"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	TotalOwed  decimal.Decimal `json:"total_owed"`
}

type DebtEdge struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type GetEventBalancesResponse struct {
	Members []MemberBalance `json:"members"`
	Debts   []DebtEdge      `json:"debts"`
}

type RefreshParticipationResponse struct {
	Applied    bool   `json:"applied"`
	Generation uint64 `json:"generation"`
	Records    int    `json:"records"`
	Failed     bool   `json:"failed"`
}

func toFinancial(s calculator.FinancialSummary, f *display.Formatter) FinancialSummary {
	return FinancialSummary{
		ActiveEventsCount: s.ActiveEventsCount,
		ExpectedPayments:  s.ExpectedPayments,
		Display:           f.Financial(s),
	}
}

func toPersonal(s calculator.PersonalStats, names map[string]string, f *display.Formatter) PersonalStats {
	p := PersonalStats{
		OrganizedCount:    s.OrganizedCount,
		ParticipatedCount: s.ParticipatedCount,
		Display:           f.Personal(s, names),
	}
	if c := s.TopCoParticipant; c != nil {
		p.TopCoParticipant = &CoParticipant{UserID: c.UserID, DisplayName: names[c.UserID], Splits: c.Splits}
	}
	if b := s.BiggestSpend; b != nil {
		p.BiggestSpend = &EventSpend{
			EventID:       b.EventID,
			EventName:     b.EventName,
			Total:         b.Total,
			Currency:      b.Currency,
			MixedCurrency: b.MixedCurrency,
		}
	}
	if l := s.LongestTrip; l != nil {
		p.LongestTrip = &TripLength{EventID: l.EventID, EventName: l.EventName, Days: l.Days}
	}
	if r := s.MostRecentOrganized; r != nil {
		p.MostRecentOrganized = &RecentEvent{EventID: r.EventID, EventName: r.EventName, CreatedAt: r.CreatedAt}
	}
	return p
}
