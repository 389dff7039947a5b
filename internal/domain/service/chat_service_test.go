package service_test

import (
	"context"
	"errors"
	"testing"

	"smartMatchApp/internal/domain/model"
	"smartMatchApp/internal/domain/service"
)

func TestSendMessage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	bc := &fakeBroadcaster{}
	relay := service.NewChatRelay(store, bc, nil, testLogger())

	msg, err := relay.SendMessage(ctx, "r1", "w1", "  hello  ")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if msg.Text != "hello" {
		t.Fatalf("expected trimmed text %q, got %q", "hello", msg.Text)
	}
	if msg.CreatedAt.IsZero() {
		t.Fatal("expected a timestamp on the stored message")
	}

	if len(store.messages) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(store.messages))
	}
	if len(bc.calls) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(bc.calls))
	}
	if bc.calls[0].roomID != "r1" || bc.calls[0].msg.SenderWallet != "w1" || bc.calls[0].msg.Text != "hello" {
		t.Fatalf("unexpected broadcast payload: %+v", bc.calls[0])
	}

	history, err := relay.History(ctx, "r1", 0)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 1 || history[0].Text != "hello" {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestSendMessage_InvalidText(t *testing.T) {
	store := newFakeStore()
	bc := &fakeBroadcaster{}
	relay := service.NewChatRelay(store, bc, nil, testLogger())

	_, err := relay.SendMessage(context.Background(), "r1", "w1", "<script>x</script>")
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(store.messages) != 0 {
		t.Fatal("no row must be written for an invalid message")
	}
	if len(bc.calls) != 0 {
		t.Fatal("nothing must be broadcast for an invalid message")
	}
}

func TestSendMessage_MissingRoomOrSender(t *testing.T) {
	relay := service.NewChatRelay(newFakeStore(), &fakeBroadcaster{}, nil, testLogger())

	if _, err := relay.SendMessage(context.Background(), "", "w1", "hi"); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("missing room: expected ErrValidation, got %v", err)
	}
	if _, err := relay.SendMessage(context.Background(), "r1", "", "hi"); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("missing sender: expected ErrValidation, got %v", err)
	}
}
