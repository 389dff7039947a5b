package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"smartMatchApp/internal/domain/model"
	"smartMatchApp/internal/domain/repository"
)

// ClickHouseRepository implements the ActivitySink interface using ClickHouse
// as the backend. It provides durable, analytical storage for the activity
// event stream (swipes, matches, messages).
type ClickHouseRepository struct {
	conn driver.Conn
}

type ClickHouseConfig struct {
	Addr     string
	Username string
	Password string
	Timeout  int
}

func NewClickHouseRepository(cfg ClickHouseConfig) (*ClickHouseRepository, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: "default",
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: time.Duration(cfg.Timeout) * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}

	// Check the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	if err := createEventTableIfNotExists(conn); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &ClickHouseRepository{conn: conn}, nil
}

var _ repository.ActivitySink = (*ClickHouseRepository)(nil)

func createEventTableIfNotExists(conn driver.Conn) error {
	return conn.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS activity_events (
			id String,
			event_type String,
			actor_wallet String,
			target_wallet String,
			chat_room_id String,
			timestamp DateTime,
			processed_at DateTime DEFAULT now()
		) ENGINE = MergeTree()
		ORDER BY (event_type, timestamp)
	`)
}

// SaveEvent saves a single activity event to ClickHouse
func (r *ClickHouseRepository) SaveEvent(ctx context.Context, ev *model.ActivityEvent) error {
	query := `
		INSERT INTO activity_events (
			id, event_type, actor_wallet, target_wallet, chat_room_id, timestamp
		) VALUES (
			?, ?, ?, ?, ?, ?
		)
	`

	return r.conn.AsyncInsert(ctx, query, false,
		ev.ID,
		string(ev.Type),
		ev.Actor,
		ev.Target,
		ev.RoomID,
		ev.Timestamp,
	)
}

func (r *ClickHouseRepository) Close() error {
	return r.conn.Close()
}
