package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citypick/internal/domain"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	b := New(nil)
	defer b.Close()

	got := make(chan DomainEvent, 1)
	b.Subscribe(EventCommitted, func(e DomainEvent) { got <- e })
	b.Publish(CommittedEvent{Codes: []domain.Code{"310000"}})

	select {
	case e := <-got:
		ev, ok := e.(CommittedEvent)
		require.True(t, ok)
		assert.Equal(t, []domain.Code{"310000"}, ev.Codes)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New(nil)
	defer b.Close()

	var mu sync.Mutex
	count := 0
	unsubscribe := b.Subscribe(EventCancelled, func(DomainEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	done := make(chan struct{})
	b.Subscribe(EventCancelled, func(DomainEvent) { done <- struct{}{} })

	unsubscribe()
	b.Publish(CancelledEvent{})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber was not called")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, count)
}

func TestHandlerPanicDoesNotStopDispatch(t *testing.T) {
	b := New(nil)
	defer b.Close()

	done := make(chan struct{}, 1)
	b.Subscribe(EventTabSwitched, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventCancelled, func(DomainEvent) { done <- struct{}{} })

	b.Publish(TabSwitchedEvent{From: "china", To: "foreign"})
	b.Publish(CancelledEvent{})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher died after handler panic")
	}
}

func TestPublishAfterCloseIsIgnored(t *testing.T) {
	b := New(nil)
	b.Close()
	assert.NotPanics(t, func() { b.Publish(CancelledEvent{}) })
	b.Close()
}
