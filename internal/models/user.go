package models

// User represents a registered traveler.
type User struct {
	// ID is the primary identifier for the user.
	ID string `json:"id"`

	// RealID is an optional secondary identifier. Some datasets (participation
	// records in particular) reference the user by this id instead of ID.
	RealID string `json:"real_id,omitempty"`

	// AuthUserID identifies the user as an event organizer. Event.CreatedBy is
	// compared against this value, not against ID.
	AuthUserID string `json:"auth_user_id,omitempty"`

	// DisplayName is the name shown in the UI.
	DisplayName string `json:"display_name,omitempty"`

	// Email is the user's email address.
	Email string `json:"email,omitempty"`

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64 `json:"created_at"`
}

// Is reports whether id refers to the same natural person as u, matching
// either the primary id or the alias.
func (u User) Is(id string) bool {
	if id == "" {
		return false
	}
	return id == u.ID || (u.RealID != "" && id == u.RealID)
}

// IsPrimary reports whether id equals the primary id of u.
func (u User) IsPrimary(id string) bool {
	return id != "" && id == u.ID
}

// IDs returns the distinct non-empty identifiers of u, primary first.
func (u User) IDs() []string {
	ids := make([]string, 0, 2)
	if u.ID != "" {
		ids = append(ids, u.ID)
	}
	if u.RealID != "" && u.RealID != u.ID {
		ids = append(ids, u.RealID)
	}
	return ids
}

// IsOrganizerOf reports whether u created the event.
func (u User) IsOrganizerOf(e Event) bool {
	return u.AuthUserID != "" && e.CreatedBy == u.AuthUserID
}
