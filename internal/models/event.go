package models

import "time"

// StatusActive is the event status that qualifies an event for expected payments.
const StatusActive = "active"

// Event represents a trip or gathering that expenses are recorded against.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string `json:"id"`

	// Name is the display name of the event (e.g., "Lisbon 2025").
	Name string `json:"name"`

	// Status is free-form. Only StatusActive has a meaning to the stats engine.
	Status string `json:"status"`

	// CreatedAt is when the event was created.
	CreatedAt time.Time `json:"created_at"`

	// CreatedBy is the organizer's AuthUserID.
	CreatedBy string `json:"created_by"`

	Location         string `json:"location,omitempty"`
	ParticipantCount int    `json:"participant_count"`
	Currency         string `json:"currency,omitempty"`
	Icon             string `json:"icon,omitempty"`
}

// IsActive reports whether the event status is StatusActive.
func (e Event) IsActive() bool {
	return e.Status == StatusActive
}
