package pubsub

import (
	"sync"

	"github.com/sandlotsim/league-engine/internal/logger"
)

// Event is one season lifecycle notification fanned out to subscribers
type Event struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Event types emitted over the season bus
const (
	EventScheduleGenerated = "schedule:generated"
	EventGameResult        = "game:result"
	EventStandingsUpdate   = "standings:update"
	EventSeasonComplete    = "season:complete"
	EventPlayoffsSeeded    = "playoffs:seeded"
	EventPlayoffGame       = "playoffs:game"
	EventPlayoffChampion   = "playoffs:champion"
)

// Upstream is a cross-instance publisher (NATS in production). The bus
// round-trips every published event through it so all instances see the
// same stream.
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// Bus is the in-process fan-out for season events. With an upstream
// attached it bridges local subscribers to the shared stream.
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan Event
	upstream    Upstream
}

// New creates a standalone in-process bus
func New() *Bus {
	return &Bus{subscribers: []chan Event{}}
}

// NewWithUpstream creates a bus bridged to an upstream publisher. Publishes
// go to the upstream, and everything arriving from the upstream, including
// this instance's own events, is forwarded to local subscribers.
func NewWithUpstream(upstream Upstream) *Bus {
	bus := &Bus{
		subscribers: []chan Event{},
		upstream:    upstream,
	}

	go func() {
		ch := upstream.Subscribe()
		logger.Debug("Season bus: subscribed to upstream")
		for event := range ch {
			bus.publishLocal(event)
		}
		logger.Debug("Season bus: upstream channel closed")
	}()

	return bus
}

// Subscribe registers a new subscriber channel
func (b *Bus) Subscribe() chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 10)
	b.subscribers = append(b.subscribers, ch)
	logger.Debug("Season bus: subscriber added", "totalSubscribers", len(b.subscribers))
	return ch
}

// Unsubscribe removes a subscriber and closes its channel
func (b *Bus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub == ch {
			close(ch)
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			break
		}
	}
}

// Publish fans an event out to every subscriber. With an upstream the event
// goes there first and comes back through the bridge subscription.
func (b *Bus) Publish(event Event) {
	if b.upstream != nil {
		b.upstream.Publish(event)
		return
	}
	b.publishLocal(event)
}

func (b *Bus) publishLocal(event Event) {
	b.mu.RLock()
	subs := make([]chan Event, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
			// Slow subscriber, drop rather than block the season loop
		}
	}
}
