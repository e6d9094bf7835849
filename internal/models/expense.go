package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents money spent during an event.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// EventID is the event this expense belongs to.
	EventID string `json:"event_id"`

	// Amount is the full expense amount.
	Amount decimal.Decimal `json:"amount"`

	Currency string `json:"currency,omitempty"`

	// PaidBy is the identifier of the user who paid. It may hold either the
	// payer's ID or RealID.
	PaidBy string `json:"paid_by"`

	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`

	// Date is when the expense occurred. Nil when the source did not record it;
	// use OccurredAt to get a usable timestamp.
	Date *time.Time `json:"date,omitempty"`

	// CreatedAt is when the expense was recorded.
	CreatedAt time.Time `json:"created_at"`

	// Splits are the per-participant shares. They are not guaranteed to sum to
	// Amount and may be empty.
	Splits []Split `json:"splits,omitempty"`
}

// OccurredAt returns Date, falling back to CreatedAt when Date is unset.
func (e Expense) OccurredAt() time.Time {
	if e.Date != nil && !e.Date.IsZero() {
		return *e.Date
	}
	return e.CreatedAt
}

// UnmarshalJSON decodes an expense, treating a missing or non-numeric amount as zero.
func (e *Expense) UnmarshalJSON(data []byte) error {
	type alias Expense
	aux := struct {
		*alias
		Amount json.RawMessage `json:"amount"`
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Amount = AmountFromJSON(aux.Amount)
	return nil
}

// Split is one participant's share of an expense.
type Split struct {
	ID        string `json:"id,omitempty"`
	ExpenseID string `json:"expense_id,omitempty"`

	// UserID is the participant who owes this share.
	UserID string `json:"user_id"`

	// Amount is what the participant owes.
	Amount decimal.Decimal `json:"amount"`
}

// UnmarshalJSON decodes a split, treating a missing or non-numeric amount as zero.
func (s *Split) UnmarshalJSON(data []byte) error {
	type alias Split
	aux := struct {
		*alias
		Amount json.RawMessage `json:"amount"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Amount = AmountFromJSON(aux.Amount)
	return nil
}
