package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/common"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/models"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/pubsub"
)

func TestSendTextMessage_RequiresSignin(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := NewMessageService(db, newFakeRepoManager(), testBroker(t))

	_, err := s.SendTextMessage(context.Background(), "hi", "g1", false, Requester{})
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("expected ErrorForbidden, got %v", err)
	}
}

func TestSendTextMessage_PersistsThenPublishes(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	rm := newFakeRepoManager()
	broker := testBroker(t)
	s := NewMessageService(db, rm, broker)

	nick := "ghost"
	gid := "g1"
	rm.users.add(&models.User{ID: "u1", Nickname: &nick, GroupID: &gid, Verified: models.VerifiedAnonymous})

	sub := broker.Subscribe(pubsub.TopicMessageAdded, gid)
	defer sub.Close()

	got, err := s.SendTextMessage(context.Background(), "hello", gid, true, Requester{UserID: "u1"})
	if err != nil {
		t.Fatalf("SendTextMessage error: %v", err)
	}

	if got.Text == nil || *got.Text != "hello" {
		t.Errorf("unexpected text: %v", got.Text)
	}
	if got.RecieverID != gid || got.SenderID != "u1" {
		t.Errorf("unexpected routing: %+v", got)
	}
	if !got.Anonymous {
		t.Error("anonymous flag not carried through")
	}
	if got.Sender == nil || got.Sender.Nickname != "ghost" {
		t.Errorf("expected embedded sender identity, got %+v", got.Sender)
	}

	// The subscriber sees the persisted message, never an unsaved one.
	select {
	case ev := <-sub.C:
		published, ok := ev.Payload.(*models.Message)
		if !ok || published.ID != got.ID {
			t.Errorf("unexpected MESSAGE_ADDED payload: %+v", ev.Payload)
		}
	default:
		t.Error("expected MESSAGE_ADDED event")
	}

	if len(rm.messages.created) != 1 {
		t.Errorf("expected 1 persisted message, got %d", len(rm.messages.created))
	}
}

func TestSendTextMessage_NoReceiverCheck(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	rm := newFakeRepoManager()
	s := NewMessageService(db, rm, testBroker(t))

	rm.users.add(&models.User{ID: "u1", Verified: models.VerifiedAccount})

	// "gone" is no known group; the message is still stored.
	got, err := s.SendTextMessage(context.Background(), "into the void", "gone", false, Requester{UserID: "u1", Verified: 1})
	if err != nil {
		t.Fatalf("SendTextMessage error: %v", err)
	}
	if got.RecieverID != "gone" {
		t.Errorf("unexpected receiver: %s", got.RecieverID)
	}
}

func TestSendTextMessage_AnonymousFlagIsCallerChosen(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	rm := newFakeRepoManager()
	s := NewMessageService(db, rm, testBroker(t))

	rm.users.add(&models.User{ID: "u1", FullName: "Alice", Verified: models.VerifiedAccount})

	// A registered sender may still post under the anonymous flag.
	got, err := s.SendTextMessage(context.Background(), "hush", "g1", true, Requester{UserID: "u1", Verified: 1})
	if err != nil {
		t.Fatalf("SendTextMessage error: %v", err)
	}
	if !got.Anonymous {
		t.Error("expected anonymous message from registered sender")
	}

	// And an unverified sender posting without the flag stays non-anonymous.
	nick := "ghost"
	rm.users.add(&models.User{ID: "u2", Nickname: &nick, Verified: models.VerifiedAnonymous})
	got, err = s.SendTextMessage(context.Background(), "hello", "g1", false, Requester{UserID: "u2"})
	if err != nil {
		t.Fatalf("SendTextMessage error: %v", err)
	}
	if got.Anonymous {
		t.Error("anonymous flag must follow the request, not the sender")
	}
}

func TestListMessages_RequiresMembership(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	rm := newFakeRepoManager()
	s := NewMessageService(db, rm, testBroker(t))

	other := "g2"
	rm.users.add(&models.User{ID: "u1", GroupID: &other})

	_, err := s.ListMessages(context.Background(), "g1", 0, Requester{UserID: "u1"})
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("expected ErrorForbidden, got %v", err)
	}
}

func TestListMessages_ReversesPage(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	rm := newFakeRepoManager()
	s := NewMessageService(db, rm, testBroker(t))

	gid := "g1"
	rm.users.add(&models.User{ID: "u1", GroupID: &gid})
	rm.messages.listOut = []*models.Message{{ID: "m3"}, {ID: "m2"}, {ID: "m1"}}

	got, err := s.ListMessages(context.Background(), gid, 0, Requester{UserID: "u1"})
	if err != nil {
		t.Fatalf("ListMessages error: %v", err)
	}

	want := []string{"m1", "m2", "m3"}
	for i, m := range got {
		if m.ID != want[i] {
			t.Fatalf("expected chronological order %v, got %s at %d", want, m.ID, i)
		}
	}
}
