package models

// Participation records that a user takes part in an event.
type Participation struct {
	EventID string `json:"event_id"`

	// UserID may hold either the user's ID or RealID.
	UserID string `json:"user_id"`
}
