package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/travelstats/internal/models"
)

// AddParticipant records that userID participates in eventID.
func (s *SQLiteStore) AddParticipant(ctx context.Context, eventID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO event_participants (event_id, user_id) VALUES (?, ?)",
		eventID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// ListParticipations retrieves participation records for any of userIDs.
func (s *SQLiteStore) ListParticipations(ctx context.Context, userIDs ...string) ([]models.Participation, error) {
	if len(userIDs) == 0 {
		return []models.Participation{}, nil
	}
	marks, args := placeholders(userIDs)
	rows, err := s.db.QueryContext(ctx,
		"SELECT event_id, user_id FROM event_participants WHERE user_id IN ("+marks+") ORDER BY event_id, user_id",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	defer rows.Close()

	records := []models.Participation{}
	for rows.Next() {
		var p models.Participation
		if err := rows.Scan(&p.EventID, &p.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan participation: %w", err)
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participations: %w", err)
	}
	return records, nil
}
