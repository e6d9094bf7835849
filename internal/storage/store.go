// Package storage provides abstractions for the snapshot sources the stats
// engine reads from.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/travelstats/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Reader defines the read operations the stats service needs.
type Reader interface {
	// GetUser retrieves a user by primary id or alias.
	// Returns ErrNotFound if no user matches.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// ListUsers retrieves the users with the given ids (primary or alias).
	// Unknown ids are skipped.
	ListUsers(ctx context.Context, ids []string) ([]models.User, error)

	// ListEvents retrieves all events, newest first.
	ListEvents(ctx context.Context) ([]models.Event, error)

	// ListExpenses retrieves all expenses with their splits, newest first.
	ListExpenses(ctx context.Context) ([]models.Expense, error)

	// ListParticipations retrieves participation records whose user id is any
	// of userIDs.
	ListParticipations(ctx context.Context, userIDs ...string) ([]models.Participation, error)
}

// Store defines the interface for snapshot storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	Reader

	// CreateUser persists a new user. The ID is generated when empty.
	CreateUser(ctx context.Context, user *models.User) error

	// CreateEvent persists a new event. ID and CreatedAt are generated when empty.
	CreateEvent(ctx context.Context, event *models.Event) error

	// CreateExpense persists an expense and its splits. IDs and CreatedAt are
	// generated when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// AddParticipant records that userID participates in eventID.
	// Adding an existing pair is a no-op.
	AddParticipant(ctx context.Context, eventID, userID string) error

	// Close releases any resources held by the store.
	Close() error
}
