package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/travelstats/internal/models"
)

// settleThreshold is the smallest residue worth a debt edge.
var settleThreshold = decimal.NewFromFloat(0.01)

// MemberBalance represents the balance information for one event member.
type MemberBalance struct {
	UserID     string
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid  decimal.Decimal // Total amount paid across the event's expenses
	TotalOwed  decimal.Decimal // Sum of this member's splits
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// CalculateEventBalances computes balances across one event's expenses.
//
// Algorithm:
// - For each expense: payer contributed +amount, each split participant owes its split
// - Aggregate: net_balance = total_paid - total_owed
// - Debts: simplified by greedily matching debtors with creditors
//
// Expenses without a payer are skipped. Members and edges are ordered by id.
func CalculateEventBalances(expenses []models.Expense) ([]MemberBalance, []DebtEdge) {
	balances := make(map[string]*MemberBalance)
	member := func(id string) *MemberBalance {
		b, ok := balances[id]
		if !ok {
			b = &MemberBalance{UserID: id, TotalPaid: decimal.Zero, TotalOwed: decimal.Zero}
			balances[id] = b
		}
		return b
	}

	for _, exp := range expenses {
		if exp.PaidBy == "" {
			continue
		}
		payer := member(exp.PaidBy)
		payer.TotalPaid = payer.TotalPaid.Add(exp.Amount)

		for _, sp := range exp.Splits {
			if sp.UserID == "" {
				continue
			}
			m := member(sp.UserID)
			m.TotalOwed = m.TotalOwed.Add(sp.Amount)
		}
	}

	ids := make([]string, 0, len(balances))
	for id, b := range balances {
		b.NetBalance = b.TotalPaid.Sub(b.TotalOwed)
		ids = append(ids, id)
	}
	sort.Strings(ids)

	memberBalances := make([]MemberBalance, 0, len(ids))
	var creditors, debtors []string
	remaining := make(map[string]decimal.Decimal, len(ids))
	for _, id := range ids {
		b := balances[id]
		memberBalances = append(memberBalances, *b)
		switch b.NetBalance.Sign() {
		case 1:
			creditors = append(creditors, id)
			remaining[id] = b.NetBalance
		case -1:
			debtors = append(debtors, id)
			remaining[id] = b.NetBalance.Neg()
		}
	}

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := debtors[i], creditors[j]

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := decimal.Min(remaining[debtor], remaining[creditor])
		if amount.GreaterThan(settleThreshold) {
			edges = append(edges, DebtEdge{From: debtor, To: creditor, Amount: amount})
		}

		remaining[debtor] = remaining[debtor].Sub(amount)
		remaining[creditor] = remaining[creditor].Sub(amount)

		if remaining[debtor].LessThan(settleThreshold) {
			i++
		}
		if remaining[creditor].LessThan(settleThreshold) {
			j++
		}
	}

	sort.SliceStable(edges, func(a, b int) bool {
		if edges[a].From != edges[b].From {
			return edges[a].From < edges[b].From
		}
		return edges[a].To < edges[b].To
	})
	return memberBalances, edges
}
