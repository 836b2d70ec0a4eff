package pubsub

import (
	"sync"

	"github.com/sandlotsim/league-engine/internal/logger"
)

// MockUpstream is an in-memory stand-in for the NATS upstream. It keeps a
// bounded message history to approximate JetStream replay in tests and
// local runs.
type MockUpstream struct {
	subject     string
	subscribers []chan Event
	mu          sync.RWMutex
	messages    []Event
	maxMessages int
}

// NewMockUpstream creates a mock upstream that needs no NATS server
func NewMockUpstream(subject string) *MockUpstream {
	logger.Info("Using mock season event upstream", "subject", subject)

	return &MockUpstream{
		subject:     subject,
		subscribers: make([]chan Event, 0),
		messages:    make([]Event, 0),
		maxMessages: 1000,
	}
}

// Publish stores the event and delivers it to all subscribers
func (p *MockUpstream) Publish(event Event) {
	p.mu.Lock()
	p.messages = append(p.messages, event)
	if len(p.messages) > p.maxMessages {
		p.messages = p.messages[len(p.messages)-p.maxMessages:]
	}
	subs := make([]chan Event, len(p.subscribers))
	copy(subs, p.subscribers)
	p.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub <- event:
		default:
			logger.Warn("Mock upstream: skipping slow subscriber", "event_type", event.Type)
		}
	}
}

// Subscribe creates a subscription channel for events
func (p *MockUpstream) Subscribe() chan Event {
	ch := make(chan Event, 100)

	p.mu.Lock()
	p.subscribers = append(p.subscribers, ch)
	p.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscription channel
func (p *MockUpstream) Unsubscribe(ch chan Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, sub := range p.subscribers {
		if sub == ch {
			p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// SubscribeDurable mimics a durable consumer by running the handler over a
// plain subscription
func (p *MockUpstream) SubscribeDurable(consumerName string, handler func(Event)) error {
	logger.Debug("Mock upstream: durable subscription (simulated)", "consumer_name", consumerName)

	ch := p.Subscribe()
	go func() {
		for event := range ch {
			handler(event)
		}
	}()
	return nil
}

// ReplayMessages sends the last count stored events into ch
func (p *MockUpstream) ReplayMessages(ch chan Event, count int) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	start := len(p.messages) - count
	if start < 0 {
		start = 0
	}

	for _, event := range p.messages[start:] {
		select {
		case ch <- event:
		default:
			logger.Warn("Mock upstream: channel full during replay")
		}
	}
}

// GetMessageCount returns the number of stored events
func (p *MockUpstream) GetMessageCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.messages)
}

// GetSubscriberCount returns the number of active subscribers
func (p *MockUpstream) GetSubscriberCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscribers)
}

// Close closes all subscriber channels
func (p *MockUpstream) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, sub := range p.subscribers {
		close(sub)
	}
	p.subscribers = nil
}
