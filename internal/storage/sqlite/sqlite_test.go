package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/travelstats/internal/models"
	"github.com/mmynk/travelstats/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "travelstats-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser and GetUser by either id", func(t *testing.T) {
		user := &models.User{ID: "u1", RealID: "real-1", AuthUserID: "auth-1", DisplayName: "Ana"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		for _, id := range []string{"u1", "real-1"} {
			got, err := store.GetUser(ctx, id)
			if err != nil {
				t.Fatalf("GetUser(%q) failed: %v", id, err)
			}
			if got.ID != "u1" || got.RealID != "real-1" || got.AuthUserID != "auth-1" || got.DisplayName != "Ana" {
				t.Errorf("GetUser(%q) = %+v", id, got)
			}
		}
	})

	t.Run("GetUser returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUser(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("CreateUser generates ID", func(t *testing.T) {
		user := &models.User{DisplayName: "Generated"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == "" || user.CreatedAt == 0 {
			t.Errorf("expected generated ID and CreatedAt, got %+v", user)
		}
	})

	t.Run("ListUsers matches alias", func(t *testing.T) {
		users, err := store.ListUsers(ctx, []string{"real-1", "nobody"})
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 1 || users[0].ID != "u1" {
			t.Errorf("ListUsers = %+v, want u1", users)
		}
	})

	t.Run("events round trip newest first", func(t *testing.T) {
		older := &models.Event{Name: "Porto", Status: models.StatusActive, CreatedBy: "auth-1",
			CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Currency: "EUR", ParticipantCount: 3}
		newer := &models.Event{Name: "Oslo", Status: "closed", CreatedBy: "auth-2",
			CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}
		for _, e := range []*models.Event{older, newer} {
			if err := store.CreateEvent(ctx, e); err != nil {
				t.Fatalf("CreateEvent failed: %v", err)
			}
		}

		events, err := store.ListEvents(ctx)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("got %d events, want 2", len(events))
		}
		if events[0].ID != newer.ID || events[1].ID != older.ID {
			t.Errorf("events not ordered newest first: %s, %s", events[0].Name, events[1].Name)
		}
		got := events[1]
		if got.Status != models.StatusActive || got.Currency != "EUR" || got.ParticipantCount != 3 ||
			!got.CreatedAt.Equal(older.CreatedAt) {
			t.Errorf("event = %+v", got)
		}
	})
}

func TestSQLiteStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	event := &models.Event{Name: "Kyoto"}
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	date := time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC)
	withSplits := &models.Expense{
		EventID:   event.ID,
		Amount:    decimal.RequireFromString("100.50"),
		Currency:  "JPY",
		PaidBy:    "u1",
		Category:  "food",
		Date:      &date,
		CreatedAt: time.Date(2025, 4, 4, 0, 0, 0, 0, time.UTC),
		Splits: []models.Split{
			{UserID: "u2", Amount: decimal.RequireFromString("50.25")},
			{UserID: "u1", Amount: decimal.RequireFromString("50.25")},
		},
	}
	noSplits := &models.Expense{
		EventID:   event.ID,
		Amount:    decimal.NewFromInt(7),
		PaidBy:    "u2",
		CreatedAt: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, e := range []*models.Expense{withSplits, noSplits} {
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}
	if withSplits.Splits[0].ID == "" || withSplits.Splits[0].ExpenseID != withSplits.ID {
		t.Errorf("split ids not populated: %+v", withSplits.Splits[0])
	}

	expenses, err := store.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("got %d expenses, want 2", len(expenses))
	}

	got := expenses[0]
	if got.ID != withSplits.ID {
		t.Fatalf("first expense = %s, want newest %s", got.ID, withSplits.ID)
	}
	if !got.Amount.Equal(withSplits.Amount) || got.Currency != "JPY" || got.Category != "food" {
		t.Errorf("expense = %+v", got)
	}
	if got.Date == nil || !got.Date.Equal(date) {
		t.Errorf("Date = %v, want %v", got.Date, date)
	}
	if len(got.Splits) != 2 || got.Splits[0].UserID != "u2" || got.Splits[1].UserID != "u1" {
		t.Fatalf("splits = %+v, want u2 then u1", got.Splits)
	}
	if !got.Splits[0].Amount.Equal(decimal.RequireFromString("50.25")) {
		t.Errorf("split amount = %s", got.Splits[0].Amount)
	}

	if expenses[1].Date != nil || len(expenses[1].Splits) != 0 {
		t.Errorf("expense without date/splits = %+v", expenses[1])
	}
}

func TestSQLiteStore_UnparsableAmountsReadAsZero(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	event := &models.Event{Name: "Legacy"}
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	// rows written by another client with garbage amounts
	if _, err := store.db.ExecContext(ctx,
		"INSERT INTO expenses (id, event_id, amount, paid_by, created_at) VALUES ('x1', ?, 'n/a', 'u1', 1)",
		event.ID); err != nil {
		t.Fatalf("insert expense: %v", err)
	}
	if _, err := store.db.ExecContext(ctx,
		"INSERT INTO expense_splits (id, expense_id, user_id, amount) VALUES ('s1', 'x1', 'u2', NULL), ('s2', 'x1', 'u3', 'twelve')"); err != nil {
		t.Fatalf("insert splits: %v", err)
	}

	expenses, err := store.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 1 || len(expenses[0].Splits) != 2 {
		t.Fatalf("expenses = %+v", expenses)
	}
	if !expenses[0].Amount.IsZero() {
		t.Errorf("Amount = %s, want 0", expenses[0].Amount)
	}
	for _, sp := range expenses[0].Splits {
		if !sp.Amount.IsZero() {
			t.Errorf("split %s amount = %s, want 0", sp.ID, sp.Amount)
		}
	}
}

func TestSQLiteStore_Participations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		e := &models.Event{Name: name}
		if err := store.CreateEvent(ctx, e); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		ids = append(ids, e.ID)
	}

	add := func(eventID, userID string) {
		t.Helper()
		if err := store.AddParticipant(ctx, eventID, userID); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
	}
	add(ids[0], "u1")
	add(ids[0], "u1") // duplicate is a no-op
	add(ids[1], "real-1")
	add(ids[2], "other")

	records, err := store.ListParticipations(ctx, "u1", "real-1")
	if err != nil {
		t.Fatalf("ListParticipations failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}

	fetched, err := storage.ParticipationFetcher{Reader: store}.FetchParticipations(ctx,
		models.User{ID: "u1", RealID: "real-1"})
	if err != nil {
		t.Fatalf("FetchParticipations failed: %v", err)
	}
	if len(fetched) != 2 {
		t.Errorf("fetcher returned %d records, want 2", len(fetched))
	}

	none, err := store.ListParticipations(ctx)
	if err != nil || len(none) != 0 {
		t.Errorf("ListParticipations() = %v, %v; want empty", none, err)
	}
}

func TestNewIsIdempotent(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "nested", "again.db")

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("first New failed: %v", err)
	}
	first.Close()

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("second New failed (migrations must tolerate no change): %v", err)
	}
	second.Close()
}
