package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{40, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

// ackRecorder records how a delivery was settled.
type ackRecorder struct {
	acked    bool
	nacked   bool
	requeued bool
}

func (a *ackRecorder) Ack(uint64, bool) error {
	a.acked = true
	return nil
}

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeued = true, requeue
	return nil
}

func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeued = true, requeue
	return nil
}

func TestClient_HandleDelivery(t *testing.T) {
	client := &Client{queueName: "test_queue", logger: slog.Default()}
	valid := `{"user_id":"u1","event_id":"e1","action":"joined","timestamp":"2025-06-01T09:00:00Z"}`

	tests := []struct {
		name        string
		body        string
		handlerErr  error
		wantCalled  bool
		wantAck     bool
		wantRequeue bool
	}{
		{name: "handled", body: valid, wantCalled: true, wantAck: true},
		{name: "handler failure requeues", body: valid, handlerErr: errors.New("db down"), wantCalled: true, wantRequeue: true},
		{name: "malformed json dropped", body: `{"user_id":`},
		{name: "invalid message dropped", body: `{"user_id":"u1","action":"renamed"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &ackRecorder{}
			var called *ParticipationChangedMessage
			handler := func(_ context.Context, msg *ParticipationChangedMessage) error {
				called = msg
				return tt.handlerErr
			}

			client.handleDelivery(context.Background(), amqp091.Delivery{Acknowledger: ack, Body: []byte(tt.body)}, handler)

			if (called != nil) != tt.wantCalled {
				t.Fatalf("handler called = %v, want %v", called != nil, tt.wantCalled)
			}
			if called != nil && (called.UserID != "u1" || called.EventID != "e1") {
				t.Errorf("message = %+v", called)
			}
			if ack.acked != tt.wantAck {
				t.Errorf("acked = %v, want %v", ack.acked, tt.wantAck)
			}
			if !tt.wantAck && !ack.nacked {
				t.Error("expected nack")
			}
			if ack.requeued != tt.wantRequeue {
				t.Errorf("requeued = %v, want %v", ack.requeued, tt.wantRequeue)
			}
		})
	}
}
