package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmynk/travelstats/internal/models"
)

const userColumns = "id, real_id, auth_user_id, display_name, email, created_at"

// CreateUser inserts a new user.
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	_, err := s.pool.Exec(ctx,
		"INSERT INTO users ("+userColumns+") VALUES ($1, $2, $3, $4, $5, $6)",
		user.ID, nullable(user.RealID), nullable(user.AuthUserID), user.DisplayName, user.Email, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by primary id, falling back to the alias.
func (s *PostgresStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1 OR real_id = $1 ORDER BY (id = $1) DESC LIMIT 1", id)
	user, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user "+id)
	}
	return user, nil
}

// ListUsers retrieves the users matching any of ids by primary id or alias.
func (s *PostgresStore) ListUsers(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	rows, err := s.pool.Query(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ANY($1) OR real_id = ANY($1) ORDER BY id", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var realID, authID *string
	user := &models.User{}
	if err := row.Scan(&user.ID, &realID, &authID, &user.DisplayName, &user.Email, &user.CreatedAt); err != nil {
		return nil, err
	}
	if realID != nil {
		user.RealID = *realID
	}
	if authID != nil {
		user.AuthUserID = *authID
	}
	return user, nil
}

// CreateEvent persists a new event.
func (s *PostgresStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO events (id, name, status, created_at, created_by, location, participant_count, currency, icon)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.ID, event.Name, event.Status, event.CreatedAt.Unix(), event.CreatedBy,
		event.Location, event.ParticipantCount, event.Currency, event.Icon,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// ListEvents retrieves all events, newest first.
func (s *PostgresStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, status, created_at, created_by, location, participant_count, currency, icon
		 FROM events ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.Name, &e.Status, &createdAt, &e.CreatedBy,
			&e.Location, &e.ParticipantCount, &e.Currency, &e.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.CreatedAt = fromUnix(createdAt)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// CreateExpense persists an expense and its splits in one transaction.
func (s *PostgresStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	var date *int64
	if expense.Date != nil {
		d := expense.Date.Unix()
		date = &d
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO expenses (id, event_id, amount, currency, paid_by, category, description, date, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			expense.ID, expense.EventID, expense.Amount.String(), expense.Currency, expense.PaidBy,
			expense.Category, expense.Description, date, expense.CreatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		batch := &pgx.Batch{}
		for i := range expense.Splits {
			sp := &expense.Splits[i]
			if sp.ID == "" {
				sp.ID = uuid.New().String()
			}
			sp.ExpenseID = expense.ID
			batch.Queue(
				"INSERT INTO expense_splits (id, expense_id, user_id, amount, position) VALUES ($1, $2, $3, $4, $5)",
				sp.ID, expense.ID, sp.UserID, sp.Amount.String(), i,
			)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert splits: %w", err)
		}
		return nil
	})
}

// ListExpenses retrieves all expenses with their splits, newest first.
func (s *PostgresStore) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, event_id, amount, currency, paid_by, category, description, date, created_at
		 FROM expenses ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	index := make(map[string]int)
	for rows.Next() {
		var e models.Expense
		var amount *string
		var date *int64
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.EventID, &amount, &e.Currency, &e.PaidBy,
			&e.Category, &e.Description, &date, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if amount != nil {
			e.Amount = models.ParseAmount(*amount)
		}
		e.CreatedAt = fromUnix(createdAt)
		if date != nil {
			d := fromUnix(*date)
			e.Date = &d
		}
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	splitRows, err := s.pool.Query(ctx,
		"SELECT id, expense_id, user_id, amount FROM expense_splits ORDER BY expense_id, position")
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var sp models.Split
		var amount *string
		if err := splitRows.Scan(&sp.ID, &sp.ExpenseID, &sp.UserID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if amount != nil {
			sp.Amount = models.ParseAmount(*amount)
		}
		if i, ok := index[sp.ExpenseID]; ok {
			expenses[i].Splits = append(expenses[i].Splits, sp)
		}
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return expenses, nil
}

// AddParticipant records that userID participates in eventID.
func (s *PostgresStore) AddParticipant(ctx context.Context, eventID, userID string) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO event_participants (event_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// ListParticipations retrieves participation records for any of userIDs.
func (s *PostgresStore) ListParticipations(ctx context.Context, userIDs ...string) ([]models.Participation, error) {
	if len(userIDs) == 0 {
		return []models.Participation{}, nil
	}
	rows, err := s.pool.Query(ctx,
		"SELECT event_id, user_id FROM event_participants WHERE user_id = ANY($1) ORDER BY event_id, user_id",
		userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Participation, error) {
		var p models.Participation
		err := row.Scan(&p.EventID, &p.UserID)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan participations: %w", err)
	}
	return records, nil
}
