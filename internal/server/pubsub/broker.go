// Package pubsub implements the in-process broadcast channels the server
// publishes lifecycle and message events on. Delivery is best-effort and
// at-most-once: subscribers that fall behind lose events rather than
// blocking publishers, and nothing is retained for late subscribers.
package pubsub

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/logging"
)

// Topic names one of the broadcast channels.
type Topic string

const (
	TopicMessageAdded Topic = "MESSAGE_ADDED"
	TopicUserJoined   Topic = "USER_JOINED"
	TopicUserLeft     Topic = "USER_LEFT"
)

// Event is a single published item. GroupID identifies the group the event
// concerns and is used for broker-side scoping.
type Event struct {
	Topic   Topic
	GroupID string
	Payload any
}

// subscriberBuffer bounds how many undelivered events a subscriber may
// accumulate before the broker starts dropping for it.
const subscriberBuffer = 16

type subscriber struct {
	id      string
	groupID string // "" subscribes to the whole topic
	ch      chan Event
}

// Subscription is a registered listener on one topic. Receive from C until
// it is closed; call Close to unregister.
type Subscription struct {
	broker *Broker
	topic  Topic
	id     string

	// C delivers events in publish order.
	C <-chan Event
}

// Close unregisters the subscription and closes C.
func (s *Subscription) Close() {
	s.broker.unsubscribe(s.topic, s.id)
}

// Broker fans published events out to current subscribers of a topic.
// A subscriber registered with a group id only receives events for that
// group; a subscriber registered with "" receives every event on the topic
// and filters client-side.
type Broker struct {
	mu     sync.RWMutex
	subs   map[Topic]map[string]*subscriber
	closed bool
	logger logging.Logger
}

// NewBroker creates an empty broker.
func NewBroker(logger logging.Logger) *Broker {
	return &Broker{
		subs:   make(map[Topic]map[string]*subscriber),
		logger: logger.With("module", "pubsub"),
	}
}

// Subscribe registers a listener on topic. groupID limits delivery to
// events of that group; pass "" to receive every event on the topic.
// Returns nil if the broker is already closed.
func (b *Broker) Subscribe(topic Topic, groupID string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	sub := &subscriber{
		id:      uuid.NewString(),
		groupID: groupID,
		ch:      make(chan Event, subscriberBuffer),
	}

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[string]*subscriber)
	}
	b.subs[topic][sub.id] = sub

	return &Subscription{broker: b, topic: topic, id: sub.id, C: sub.ch}
}

func (b *Broker) unsubscribe(topic Topic, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subs[topic][id]; ok {
		delete(b.subs[topic], id)
		close(sub.ch)
	}
}

// Publish delivers the event to every matching subscriber of the topic.
// Subscribers with a full buffer are skipped; the drop is logged.
func (b *Broker) Publish(ctx context.Context, topic Topic, groupID string, payload any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	ev := Event{Topic: topic, GroupID: groupID, Payload: payload}

	for _, sub := range b.subs[topic] {
		if sub.groupID != "" && sub.groupID != groupID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			b.logger.Warn(ctx, "dropping event for slow subscriber",
				"topic", string(topic), "group", groupID, "subscriber", sub.id)
		}
	}
}

// Close unregisters all subscribers and closes their channels. Publish and
// Subscribe become no-ops afterwards.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, subs := range b.subs {
		for id, sub := range subs {
			delete(subs, id)
			close(sub.ch)
		}
	}
}
