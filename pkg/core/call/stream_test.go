package call

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectEvents(t *testing.T, sub *Subscription, n int) []Event {
	t.Helper()
	events := make([]Event, 0, n)
	timeout := time.After(2 * time.Second)
	for len(events) < n {
		select {
		case event, ok := <-sub.Events():
			require.True(t, ok, "subscription closed early")
			events = append(events, event)
		case <-timeout:
			t.Fatalf("timed out after %d of %d events", len(events), n)
		}
	}
	return events
}

func TestStream_AllSubscribersSeeEventsInOrder(t *testing.T) {
	t.Parallel()

	stream := NewStream()
	first := stream.Subscribe()
	second := stream.Subscribe()
	defer first.Close()
	defer second.Close()

	published := []Event{
		CallStartEvent{},
		TranscriptEvent{Role: "user", TranscriptType: "partial", Transcript: "one"},
		TranscriptEvent{Role: "user", TranscriptType: "final", Transcript: "two"},
		CallEndEvent{},
	}
	for _, event := range published {
		stream.Publish(event)
	}

	assert.Equal(t, published, collectEvents(t, first, len(published)))
	assert.Equal(t, published, collectEvents(t, second, len(published)))
}

func TestStream_NoReplayForLateSubscriber(t *testing.T) {
	t.Parallel()

	stream := NewStream()
	stream.Publish(CallStartEvent{})

	late := stream.Subscribe()
	defer late.Close()

	stream.Publish(CallEndEvent{})
	events := collectEvents(t, late, 1)
	assert.Equal(t, CallEndEvent{}, events[0])

	select {
	case event := <-late.Events():
		t.Fatalf("unexpected replayed event %v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStream_PublishNeverBlocksOnSlowConsumer(t *testing.T) {
	t.Parallel()

	stream := NewStream()
	slow := stream.Subscribe()
	defer slow.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			stream.Publish(HangEvent{})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on an unconsumed subscription")
	}

	events := collectEvents(t, slow, 1000)
	assert.Len(t, events, 1000)
}

func TestStream_CloseStopsDelivery(t *testing.T) {
	t.Parallel()

	stream := NewStream()
	sub := stream.Subscribe()
	sub.Close()
	sub.Close() // idempotent

	stream.Publish(CallStartEvent{})

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-sub.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after Close")
		}
	}
}

func TestStream_ClosedSubscriberDoesNotAffectOthers(t *testing.T) {
	t.Parallel()

	stream := NewStream()
	closed := stream.Subscribe()
	open := stream.Subscribe()
	defer open.Close()

	closed.Close()
	stream.Publish(CallStartEvent{})

	events := collectEvents(t, open, 1)
	assert.Equal(t, CallStartEvent{}, events[0])
}
