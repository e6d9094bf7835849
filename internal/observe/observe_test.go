package observe

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestMultiSkipsNilAndPreservesOrder(t *testing.T) {
	var got []string
	first := ObserverFunc(func(_ context.Context, ev Event) { got = append(got, "first:"+string(ev.Kind)) })
	second := ObserverFunc(func(_ context.Context, ev Event) { got = append(got, "second:"+string(ev.Kind)) })

	Multi(first, nil, second).Observe(context.Background(), Event{Kind: KindFetchApplied})

	want := []string{"first:participation.fetch_applied", "second:participation.fetch_applied"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	OrNop(nil).Observe(context.Background(), Event{Kind: KindStatsComputed})
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	obs := Logger(logger)
	ctx := context.Background()

	obs.Observe(ctx, Event{Kind: KindStatsComputed, UserID: "u1"})
	if buf.Len() != 0 {
		t.Errorf("debug event written at info level: %q", buf.String())
	}

	obs.Observe(ctx, Event{Kind: KindFetchFailed, UserID: "u1", Err: errors.New("boom")})
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "error=boom") {
		t.Errorf("fetch failure not logged as warning with error: %q", out)
	}
}
