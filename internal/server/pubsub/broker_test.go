package pubsub

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/logging"
)

func newTestBroker(t *testing.T) *Broker {
	t.Helper()
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	b := NewBroker(l)
	t.Cleanup(b.Close)
	return b
}

func recvOne(t *testing.T, c <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-c:
		return ev
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}

func TestPublish_DeliversToGlobalSubscriber(t *testing.T) {
	b := newTestBroker(t)
	ctx := context.Background()

	sub := b.Subscribe(TopicMessageAdded, "")
	require.NotNil(t, sub)

	b.Publish(ctx, TopicMessageAdded, "g1", "m1")
	b.Publish(ctx, TopicMessageAdded, "g2", "m2")

	ev := recvOne(t, sub.C)
	require.Equal(t, "m1", ev.Payload)
	require.Equal(t, "g1", ev.GroupID)

	ev = recvOne(t, sub.C)
	require.Equal(t, "m2", ev.Payload)
}

func TestPublish_ScopedSubscriberOnlySeesItsGroup(t *testing.T) {
	b := newTestBroker(t)
	ctx := context.Background()

	sub := b.Subscribe(TopicUserJoined, "g1")

	b.Publish(ctx, TopicUserJoined, "g2", "other")
	b.Publish(ctx, TopicUserJoined, "g1", "mine")

	ev := recvOne(t, sub.C)
	require.Equal(t, "mine", ev.Payload)

	select {
	case ev := <-sub.C:
		t.Fatalf("unexpected extra event: %+v", ev)
	default:
	}
}

func TestPublish_OrderPreservedPerSubscriber(t *testing.T) {
	b := newTestBroker(t)
	ctx := context.Background()

	sub := b.Subscribe(TopicMessageAdded, "")

	for i := 0; i < 5; i++ {
		b.Publish(ctx, TopicMessageAdded, "g", i)
	}
	for i := 0; i < 5; i++ {
		require.Equal(t, i, recvOne(t, sub.C).Payload)
	}
}

func TestPublish_DropsWhenSubscriberBufferFull(t *testing.T) {
	b := newTestBroker(t)
	ctx := context.Background()

	sub := b.Subscribe(TopicMessageAdded, "")

	for i := 0; i < subscriberBuffer+10; i++ {
		b.Publish(ctx, TopicMessageAdded, "g", i)
	}

	// The buffer holds the first events; the overflow was dropped, not
	// delivered out of order and not blocking the publisher.
	for i := 0; i < subscriberBuffer; i++ {
		require.Equal(t, i, recvOne(t, sub.C).Payload)
	}
	select {
	case ev := <-sub.C:
		t.Fatalf("expected overflow to be dropped, got %+v", ev)
	default:
	}
}

func TestSubscriptionClose_Unregisters(t *testing.T) {
	b := newTestBroker(t)
	ctx := context.Background()

	sub := b.Subscribe(TopicUserLeft, "")
	sub.Close()

	_, ok := <-sub.C
	require.False(t, ok, "channel should be closed")

	// Publishing after unsubscribe must not panic.
	b.Publish(ctx, TopicUserLeft, "g", "x")
}

func TestBrokerClose_ClosesAllAndRejectsNewWork(t *testing.T) {
	b := newTestBroker(t)
	ctx := context.Background()

	sub := b.Subscribe(TopicMessageAdded, "")
	b.Close()

	_, ok := <-sub.C
	require.False(t, ok)

	require.Nil(t, b.Subscribe(TopicMessageAdded, ""))
	b.Publish(ctx, TopicMessageAdded, "g", "x") // no-op, no panic
}
