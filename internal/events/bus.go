// Package events carries domain events from the engine to interested
// consumers (the HTTP surface, analytics). Publishing never blocks:
// a subscriber that stops draining loses events rather than stalling
// the engine.
package events

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Type names a domain event.
type Type string

const (
	TypeFolderCreated     Type = "folder.created"
	TypeFolderRenamed     Type = "folder.renamed"
	TypeFolderDeleted     Type = "folder.deleted"
	TypeAssetsMoved       Type = "assets.moved"
	TypeAnalysisCompleted Type = "analysis.completed"
	TypeTemplateApplied   Type = "template.applied"
	TypeTemplatesReloaded Type = "templates.reloaded"
	TypeLearningCleared   Type = "learning.cleared"
)

// Event is one domain event with an arbitrary payload.
type Event struct {
	Type    Type      `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

// defaultBuffer is the per-subscriber channel depth.
const defaultBuffer = 64

// Bus is a bounded fan-out event bus. All methods are thread-safe.
type Bus struct {
	mu     sync.RWMutex
	logger *zap.Logger
	buffer int
	nextID int
	subs   map[int]chan Event
	closed bool
}

// NewBus creates a bus with the given per-subscriber buffer (0 means the
// default). logger may be nil.
func NewBus(buffer int, logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Bus{
		logger: logger,
		buffer: buffer,
		subs:   make(map[int]chan Event),
	}
}

// Subscribe registers a consumer. The returned cancel function removes
// the subscription and closes the channel; it is safe to call twice.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber without blocking. A
// full subscriber buffer drops the event for that subscriber only.
func (b *Bus) Publish(t Type, payload any) {
	e := Event{Type: t, At: time.Now().UTC(), Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.logger.Debug("dropping event for slow subscriber", zap.String("type", string(t)))
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
