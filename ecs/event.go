package ecs

import "sync"

// EventType identifies different types of events
type EventType string

// Event interface that all events must implement
type Event interface {
	Type() EventType
}

// EventHandler is a function that processes events
type EventHandler func(Event)

// Subscription identifies one registered handler.
type Subscription uint64

type subscriber struct {
	id      Subscription
	handler EventHandler
}

// EventManager manages event subscriptions and dispatches
type EventManager struct {
	mu          sync.RWMutex
	next        Subscription
	subscribers map[EventType][]subscriber
}

// NewEventManager creates a new event manager
func NewEventManager() *EventManager {
	return &EventManager{
		subscribers: make(map[EventType][]subscriber),
	}
}

// Subscribe registers a handler for a specific event type
func (em *EventManager) Subscribe(eventType EventType, handler EventHandler) Subscription {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.next++
	em.subscribers[eventType] = append(em.subscribers[eventType], subscriber{id: em.next, handler: handler})
	return em.next
}

// Unsubscribe removes a handler for a specific event type
func (em *EventManager) Unsubscribe(eventType EventType, sub Subscription) {
	em.mu.Lock()
	defer em.mu.Unlock()

	subs := em.subscribers[eventType]
	kept := make([]subscriber, 0, len(subs))
	for _, s := range subs {
		if s.id != sub {
			kept = append(kept, s)
		}
	}

	if len(kept) == 0 {
		delete(em.subscribers, eventType)
	} else {
		em.subscribers[eventType] = kept
	}
}

// Emit dispatches an event to all subscribed handlers. Handlers run on the
// caller's goroutine and may emit further events.
func (em *EventManager) Emit(event Event) {
	em.mu.RLock()
	subs := em.subscribers[event.Type()]
	handlers := make([]EventHandler, len(subs))
	for i, s := range subs {
		handlers[i] = s.handler
	}
	em.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

const (
	EventEntityCreated EventType = "entity_created"
	EventEntityRemoved EventType = "entity_removed"
)

// EntityCreatedEvent is emitted once per entity committed to a World.
type EntityCreatedEvent struct {
	Entity *Entity
}

func (e EntityCreatedEvent) Type() EventType { return EventEntityCreated }

// EntityRemovedEvent is emitted once per entity removed from a World.
type EntityRemovedEvent struct {
	Entity *Entity
}

func (e EntityRemovedEvent) Type() EventType { return EventEntityRemoved }
