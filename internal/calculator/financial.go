package calculator

import (
	"github.com/shopspring/decimal"
)

// FinancialSummary holds the figures shown on the financial summary card.
type FinancialSummary struct {
	// ActiveEventsCount is the number of active events the user takes part in.
	ActiveEventsCount int

	// ExpectedPayments is what other participants owe the user across
	// expenses the user paid in those active events.
	ExpectedPayments decimal.Decimal
}

// CalculateFinancialSummary computes the active event count and expected
// payments for in.User. Missing inputs or a loading snapshot yield the zero
// summary.
//
// The payer's own share is any split naming the expense's PaidBy value or the
// user's primary ID. With Options.AliasAwareSelfShare a split naming the
// user's RealID is treated as the user's own as well. Split amounts are
// summed as-is: negative shares reduce the total.
func CalculateFinancialSummary(in Input, opts Options) FinancialSummary {
	zero := FinancialSummary{ExpectedPayments: decimal.Zero}
	if in.User == nil || in.Events == nil || in.Expenses == nil || in.Loading {
		return zero
	}
	user := *in.User
	membership := ResolveMembership(user, in.Participations)

	active := make(map[string]struct{})
	for _, e := range in.Events {
		if e.IsActive() && membership.Has(e.ID) {
			active[e.ID] = struct{}{}
		}
	}

	expected := decimal.Zero
	for _, exp := range in.Expenses {
		if _, ok := active[exp.EventID]; !ok {
			continue
		}
		if !user.Is(exp.PaidBy) {
			continue
		}
		for _, sp := range exp.Splits {
			if sp.UserID == exp.PaidBy || user.IsPrimary(sp.UserID) ||
				(opts.AliasAwareSelfShare && user.Is(sp.UserID)) {
				continue
			}
			expected = expected.Add(sp.Amount)
		}
	}

	return FinancialSummary{
		ActiveEventsCount: len(active),
		ExpectedPayments:  expected,
	}
}
