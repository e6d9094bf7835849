// Package models defines the core domain models for travelstats.
//
// # Models
//
//   - User: a person, possibly known under two identifiers (ID and RealID)
//   - Event: a trip or gathering that groups expenses
//   - Expense: money spent during an event, paid by one user
//   - Split: one participant's share of an expense
//   - Participation: membership of a user in an event
//
// All models are read-only snapshots. The stats engine consumes them and never
// writes back; creation happens in the storage layer.
//
// # Identity
//
// The same person may appear as User.ID in one dataset and as User.RealID in
// another. Use User.Is to compare an arbitrary identifier against a user, and
// User.IsPrimary when only the primary identifier must match. Do not compare
// against ID or RealID directly.
//
// # Amounts
//
// Amounts are decimal.Decimal. Sources are not trusted to be numeric: a missing
// or unparsable amount decodes as zero instead of failing the whole snapshot.
package models
