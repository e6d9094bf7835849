package storage

import (
	"context"
	"fmt"

	"github.com/mmynk/travelstats/internal/models"
)

// ParticipationFetcher queries participation records by every identifier of a user.
type ParticipationFetcher struct {
	Reader Reader
}

// FetchParticipations implements participation.Fetcher.
func (f ParticipationFetcher) FetchParticipations(ctx context.Context, user models.User) ([]models.Participation, error) {
	ids := user.IDs()
	if len(ids) == 0 {
		return []models.Participation{}, nil
	}
	records, err := f.Reader.ListParticipations(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch participations: %w", err)
	}
	return records, nil
}
