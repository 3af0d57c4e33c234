package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type chanSubscriber struct {
	received chan *Event
}

func (s *chanSubscriber) ConsumeEvent(ctx context.Context, event *Event) {
	s.received <- event
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	publisher := NewEventPublisher()

	first := &chanSubscriber{received: make(chan *Event, 1)}
	second := &chanSubscriber{received: make(chan *Event, 1)}
	publisher.RegisterSubscriber(first)
	publisher.RegisterSubscriber(second)

	publisher.Publish(&Event{Event: "catalog_synced"})

	for _, sub := range []*chanSubscriber{first, second} {
		select {
		case ev := <-sub.received:
			require.Equal(t, "catalog_synced", ev.Event)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestRemovedSubscriberStopsReceiving(t *testing.T) {
	publisher := NewEventPublisher()

	kept := &chanSubscriber{received: make(chan *Event, 1)}
	removed := &chanSubscriber{received: make(chan *Event, 1)}
	publisher.RegisterSubscriber(kept)
	publisher.RegisterSubscriber(removed)
	publisher.RemoveSubscriber(removed)

	publisher.Publish(&Event{Event: "catalog_out_of_sync"})

	select {
	case <-kept.received:
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber did not receive event")
	}

	select {
	case <-removed.received:
		t.Fatal("removed subscriber still received event")
	case <-time.After(50 * time.Millisecond):
	}
}
