package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"smartMatchApp/internal/domain/model"
)

// KafkaConfig holds Kafka connection configuration
type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// EventProducer defines the interface for publishing activity events
type EventProducer interface {
	PublishEvent(ctx context.Context, ev *model.ActivityEvent) error
	Close() error
}

// EventConsumer defines the interface for consuming activity events
type EventConsumer interface {
	Subscribe(ctx context.Context) (<-chan *model.ActivityEvent, error)
	Close() error
}

// KafkaProducer implements EventProducer using Kafka
type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(config KafkaConfig) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{}, // hash on actor wallet keeps one user's events ordered
		RequiredAcks: kafka.RequireAll,
	}
	return &KafkaProducer{writer: writer}
}

// PublishEvent sends an activity event to Kafka, keyed by the acting wallet.
func (p *KafkaProducer) PublishEvent(ctx context.Context, ev *model.ActivityEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Actor),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// KafkaConsumer implements EventConsumer using Kafka
type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(config KafkaConfig) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		GroupID:     config.ConsumerGroup,
		MinBytes:    10e3, // 10KB
		MaxBytes:    10e6, // 10MB
		StartOffset: kafka.FirstOffset,
	})
	return &KafkaConsumer{reader: reader}
}

// Subscribe returns a channel of activity events from Kafka. The channel is
// closed when the context is canceled or the reader fails.
func (c *KafkaConsumer) Subscribe(ctx context.Context) (<-chan *model.ActivityEvent, error) {
	evCh := make(chan *model.ActivityEvent, 256)

	go func() {
		defer close(evCh)
		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("Error reading message: %v", err)
				}
				return
			}

			var ev model.ActivityEvent
			if err := json.Unmarshal(msg.Value, &ev); err != nil {
				log.Printf("Error unmarshalling event: %v", err)
				continue
			}
			if ev.ID == "" {
				ev.ID = fmt.Sprintf("%s-%d-%d", ev.Actor, msg.Partition, msg.Offset)
			}

			select {
			case <-ctx.Done():
				return
			case evCh <- &ev:
			}
		}
	}()

	return evCh, nil
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
