package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"smartMatchApp/internal/domain/model"
)

type recordingProducer struct {
	mu        sync.Mutex
	published []*model.ActivityEvent
	err       error
}

func (p *recordingProducer) PublishEvent(_ context.Context, ev *model.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, ev)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func (p *recordingProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

type recordingSink struct {
	mu    sync.Mutex
	saved []*model.ActivityEvent
}

func (s *recordingSink) SaveEvent(_ context.Context, ev *model.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, ev)
	return nil
}

func (s *recordingSink) Close() error { return nil }

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestProcessorForwardsToAllTargets(t *testing.T) {
	emitter := NewChannelEmitter(16, testLogger())
	producer := &recordingProducer{}
	sink := &recordingSink{}
	proc := NewEventProcessor(emitter.Events(), producer, sink, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		proc.Run(ctx)
	}()

	emitter.Emit(&model.ActivityEvent{ID: "e1", Type: model.EventSwipe, Actor: "wallet-1"})
	emitter.Emit(&model.ActivityEvent{ID: "e2", Type: model.EventMatch, Actor: "wallet-1", Target: "wallet-2"})

	waitFor(t, func() bool { return producer.count() == 2 && sink.count() == 2 })

	cancel()
	<-done
}

func TestProcessorContinuesPastPublishFailure(t *testing.T) {
	emitter := NewChannelEmitter(16, testLogger())
	producer := &recordingProducer{err: errors.New("broker down")}
	sink := &recordingSink{}
	proc := NewEventProcessor(emitter.Events(), producer, sink, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go proc.Run(ctx)

	emitter.Emit(&model.ActivityEvent{ID: "e1", Type: model.EventMessage, Actor: "wallet-1"})

	// the sink still receives the event even though publishing failed
	waitFor(t, func() bool { return sink.count() == 1 })
}

func TestConsumerFedProcessorDrainsIntoSink(t *testing.T) {
	// stands in for the channel a Kafka subscription yields: the sink-side
	// processor persists everything it receives and publishes nothing
	feed := make(chan *model.ActivityEvent, 16)
	sink := &recordingSink{}
	proc := NewEventProcessor(feed, nil, sink, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go proc.Run(ctx)

	feed <- &model.ActivityEvent{ID: "e1", Type: model.EventSwipe, Actor: "wallet-1"}
	feed <- &model.ActivityEvent{ID: "e2", Type: model.EventMessage, Actor: "wallet-2", RoomID: "room-1"}

	waitFor(t, func() bool { return sink.count() == 2 })

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.saved[0].ID != "e1" || sink.saved[1].RoomID != "room-1" {
		t.Fatalf("sink received %+v", sink.saved)
	}
}

func TestProcessorRunsWithoutOptionalTargets(t *testing.T) {
	emitter := NewChannelEmitter(16, testLogger())
	proc := NewEventProcessor(emitter.Events(), nil, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go proc.Run(ctx)

	emitter.Emit(&model.ActivityEvent{ID: "e1", Type: model.EventSwipe, Actor: "wallet-1"})
	time.Sleep(20 * time.Millisecond)
	cancel()
}

func TestEmitterDropsWhenBufferFull(t *testing.T) {
	emitter := NewChannelEmitter(1, testLogger())

	emitter.Emit(&model.ActivityEvent{ID: "e1", Type: model.EventSwipe})
	emitter.Emit(&model.ActivityEvent{ID: "e2", Type: model.EventSwipe}) // dropped, must not block

	select {
	case ev := <-emitter.Events():
		if ev.ID != "e1" {
			t.Fatalf("got event %s, want e1", ev.ID)
		}
	default:
		t.Fatal("expected one buffered event")
	}
	select {
	case ev := <-emitter.Events():
		t.Fatalf("unexpected second event %s", ev.ID)
	default:
	}
}
