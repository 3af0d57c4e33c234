// Package events fans application events out to registered subscribers. The
// HTTP layer and the sync status tracker consume them; publishing never
// blocks the caller.
package events

import (
	"context"
	"slices"
	"sync"

	"github.com/flokiorg/storehub/logger"
)

type Event struct {
	Event      string      `json:"event"`
	Properties interface{} `json:"properties,omitempty"`
}

type EventSubscriber interface {
	ConsumeEvent(ctx context.Context, event *Event)
}

type EventPublisher interface {
	RegisterSubscriber(subscriber EventSubscriber)
	RemoveSubscriber(subscriber EventSubscriber)
	Publish(event *Event)
}

type eventPublisher struct {
	listeners []EventSubscriber
	mu        sync.RWMutex
}

func NewEventPublisher() *eventPublisher {
	return &eventPublisher{
		listeners: []EventSubscriber{},
	}
}

func (ep *eventPublisher) RegisterSubscriber(listener EventSubscriber) {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	ep.listeners = append(ep.listeners, listener)
}

func (ep *eventPublisher) RemoveSubscriber(listener EventSubscriber) {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	idx := slices.Index(ep.listeners, listener)
	if idx < 0 {
		return
	}
	ep.listeners = slices.Delete(ep.listeners, idx, idx+1)
}

func (ep *eventPublisher) Publish(event *Event) {
	ep.mu.RLock()
	listeners := slices.Clone(ep.listeners)
	ep.mu.RUnlock()

	logger.Logger.Debug().Str("event", event.Event).Msg("Publishing event")

	for _, listener := range listeners {
		go listener.ConsumeEvent(context.Background(), event)
	}
}
