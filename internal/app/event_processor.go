package app

import (
	"context"
	"log/slog"

	"smartMatchApp/internal/domain/model"
	"smartMatchApp/internal/domain/repository"
	"smartMatchApp/internal/domain/useCases"
	"smartMatchApp/internal/infrastructure/queue"
)

// ChannelEmitter implements EventEmitter over a buffered channel. Emit never
// blocks the request path; when the buffer is full the event is dropped and
// counted in the log.
type ChannelEmitter struct {
	ch  chan *model.ActivityEvent
	log *slog.Logger
}

func NewChannelEmitter(bufferSize int, log *slog.Logger) *ChannelEmitter {
	return &ChannelEmitter{
		ch:  make(chan *model.ActivityEvent, bufferSize),
		log: log,
	}
}

var _ useCases.EventEmitter = (*ChannelEmitter)(nil)

func (e *ChannelEmitter) Emit(ev *model.ActivityEvent) {
	select {
	case e.ch <- ev:
	default:
		e.log.Warn("event buffer full, dropping event",
			slog.String("type", string(ev.Type)), slog.String("actor", ev.Actor))
	}
}

// Events exposes the channel for the processor.
func (e *ChannelEmitter) Events() <-chan *model.ActivityEvent {
	return e.ch
}

// EventProcessor drains emitted activity events and forwards each to the
// optional analytics targets. Delivery failures are logged and never retried;
// the event stream is best-effort by contract.
type EventProcessor struct {
	events   <-chan *model.ActivityEvent
	producer queue.EventProducer     // optional, may be nil
	sink     repository.ActivitySink // optional, may be nil
	log      *slog.Logger
}

func NewEventProcessor(events <-chan *model.ActivityEvent, producer queue.EventProducer, sink repository.ActivitySink, log *slog.Logger) *EventProcessor {
	return &EventProcessor{
		events:   events,
		producer: producer,
		sink:     sink,
		log:      log,
	}
}

func (p *EventProcessor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-p.events:
			if ev == nil {
				continue
			}
			p.process(ctx, ev)
		}
	}
}

func (p *EventProcessor) process(ctx context.Context, ev *model.ActivityEvent) {
	if p.producer != nil {
		if err := p.producer.PublishEvent(ctx, ev); err != nil {
			p.log.Error("failed to publish event",
				slog.String("type", string(ev.Type)), slog.Any("error", err))
		}
	}
	if p.sink != nil {
		if err := p.sink.SaveEvent(ctx, ev); err != nil {
			p.log.Error("failed to persist event",
				slog.String("type", string(ev.Type)), slog.Any("error", err))
		}
	}
}
