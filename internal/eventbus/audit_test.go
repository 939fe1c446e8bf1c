package eventbus

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"citypick/internal/domain"
)

func TestLogEventsWritesEveryEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	b := New(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	defer b.Close()

	unsubscribe := LogEvents(b, logger)
	done := make(chan struct{})
	b.Subscribe(EventCancelled, func(DomainEvent) { close(done) })

	b.Publish(CommittedEvent{Codes: []domain.Code{"440300"}})
	b.Publish(LookupFailedEvent{Binding: "cities", Err: errors.New("offline")})
	b.Publish(CancelledEvent{})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("events were not delivered")
	}

	out := buf.String()
	assert.Contains(t, out, "type=Committed")
	assert.Contains(t, out, "440300")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "binding=cities")
	assert.Contains(t, out, "type=Cancelled")

	unsubscribe()
}

func TestLogEventRespectsLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	logEvent(logger, SearchIssuedEvent{Query: "shen"})
	logEvent(logger, CapacityExceededEvent{Code: "310100", Size: 2})

	assert.NotContains(t, buf.String(), "shen")
	assert.Contains(t, buf.String(), "size=2")
}
