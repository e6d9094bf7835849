package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"connectrpc.com/connect"
)

type scopedRequest struct {
	UserID string
}

func (r *scopedRequest) GetUserID() string { return r.UserID }

type anonymousRequest struct{}

func TestRequestUserID(t *testing.T) {
	if got := RequestUserID(connect.NewRequest(&scopedRequest{UserID: "u1"})); got != "u1" {
		t.Errorf("RequestUserID = %q, want u1", got)
	}
	if got := RequestUserID(connect.NewRequest(&anonymousRequest{})); got != "" {
		t.Errorf("RequestUserID = %q, want empty", got)
	}
}

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantMsg   string
	}{
		{"ok", nil, "INFO", "RPC ok"},
		{"client error", connect.NewError(connect.CodeNotFound, errors.New("no user")), "WARN", "RPC error"},
		{"internal error", connect.NewError(connect.CodeInternal, errors.New("db")), "ERROR", "RPC error"},
		{"plain error", errors.New("boom"), "ERROR", "RPC error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				return nil, tt.err
			}
			_, err := LoggingInterceptorWith(logger)(next)(context.Background(), connect.NewRequest(&scopedRequest{UserID: "u1"}))
			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}

			var line map[string]any
			if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
				t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
			}
			if line["level"] != tt.wantLevel || line["msg"] != tt.wantMsg {
				t.Errorf("logged %v %q, want %v %q", line["level"], line["msg"], tt.wantLevel, tt.wantMsg)
			}
			if line["user_id"] != "u1" {
				t.Errorf("user_id = %v, want u1", line["user_id"])
			}
		})
	}
}
