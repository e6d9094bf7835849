package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/travelstats/internal/models"
)

// CreateExpense persists an expense and its splits in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var date sql.NullInt64
	if expense.Date != nil {
		date = sql.NullInt64{Int64: expense.Date.Unix(), Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, event_id, amount, currency, paid_by, category, description, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.EventID, expense.Amount.String(), expense.Currency, expense.PaidBy,
		expense.Category, expense.Description, date, expense.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range expense.Splits {
		sp := &expense.Splits[i]
		if sp.ID == "" {
			sp.ID = uuid.New().String()
		}
		sp.ExpenseID = expense.ID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (id, expense_id, user_id, amount, position) VALUES (?, ?, ?, ?, ?)",
			sp.ID, expense.ID, sp.UserID, sp.Amount.String(), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpenses retrieves all expenses with their splits, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, amount, currency, paid_by, category, description, date, created_at
		 FROM expenses ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	index := make(map[string]int)
	for rows.Next() {
		var e models.Expense
		var amount sql.NullString
		var date sql.NullInt64
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.EventID, &amount, &e.Currency, &e.PaidBy,
			&e.Category, &e.Description, &date, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount = models.ParseAmount(amount.String)
		e.CreatedAt = fromUnix(createdAt)
		if date.Valid {
			d := fromUnix(date.Int64)
			e.Date = &d
		}
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := s.attachSplits(ctx, expenses, index); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *SQLiteStore) attachSplits(ctx context.Context, expenses []models.Expense, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, expense_id, user_id, amount FROM expense_splits ORDER BY expense_id, position",
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sp models.Split
		var amount sql.NullString
		if err := rows.Scan(&sp.ID, &sp.ExpenseID, &sp.UserID, &amount); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		sp.Amount = models.ParseAmount(amount.String)

		i, ok := index[sp.ExpenseID]
		if !ok {
			continue
		}
		expenses[i].Splits = append(expenses[i].Splits, sp)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}
