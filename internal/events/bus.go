// Package events provides a simple publish-subscribe event bus for state
// change delivery to the SSE and D-Bus layers.
package events

import "sync"

const subBufferSize = 8

// Kind discriminates what an Event describes.
type Kind string

const (
	KindState   Kind = "state"   // encoder state machine transition
	KindHotplug Kind = "hotplug" // cable connect/disconnect
	KindAudio   Kind = "audio"   // audio stream started/stopped
)

// Event is a snapshot of the output at the moment something changed.
type Event struct {
	Kind           Kind   `json:"kind"`
	State          string `json:"state"`
	Mode           string `json:"mode,omitempty"`
	Connected      bool   `json:"connected"`
	AudioStreaming bool   `json:"audio_streaming"`
}

// Bus is a non-blocking publish-subscribe event bus.
// Subscribers that are slow to consume events will have events dropped rather
// than blocking publishers.
type Bus struct {
	mu   sync.Mutex
	subs map[string]chan Event
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]chan Event),
	}
}

// Subscribe creates a new subscription with the given ID.
// The returned channel will receive events.
// Call Unsubscribe when done to clean up.
func (b *Bus) Subscribe(id string) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, subBufferSize)
	b.subs[id] = ch
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish sends an event to all subscribers.
// If a subscriber's channel is full, the event is dropped (non-blocking).
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Drop if subscriber is slow
		}
	}
}

// SubscriberCount returns the current number of subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
