package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Participation change actions.
const (
	ActionJoined = "joined"
	ActionLeft   = "left"
)

// ParticipationChangedMessage announces that a user's participation records
// changed. It carries ids only; consumers re-fetch the records.
type ParticipationChangedMessage struct {
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewParticipationChangedMessage creates a message stamped with the current time.
func NewParticipationChangedMessage(userID, eventID, action string) *ParticipationChangedMessage {
	return &ParticipationChangedMessage{
		UserID:    userID,
		EventID:   eventID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// Validate reports whether the message can be acted on.
func (m *ParticipationChangedMessage) Validate() error {
	if m.UserID == "" {
		return errors.New("user_id is required")
	}
	switch m.Action {
	case ActionJoined, ActionLeft:
	default:
		return fmt.Errorf("unknown action %q", m.Action)
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *ParticipationChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ParticipationChangedMessageFromJSON decodes and validates a message.
func ParticipationChangedMessageFromJSON(data []byte) (*ParticipationChangedMessage, error) {
	var msg ParticipationChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
