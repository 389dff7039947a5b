// Package storage provides the relational Store implementations. Two
// backends exist behind the same interface: Postgres (pgx) and SQLite
// (gorm); the bootstrap picks one from the configured DSN.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"

	"smartMatchApp/internal/domain/model"
	"smartMatchApp/internal/domain/repository"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// psql builds queries with Postgres $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository implements repository.Store on a pgx connection pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to the database, applies the versioned
// migrations once and returns a ready Store.
func NewPostgresRepository(ctx context.Context, dsn string) (*PostgresRepository, error) {
	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

// runMigrations applies the embedded goose migrations through a temporary
// database/sql connection.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

var _ repository.Store = (*PostgresRepository)(nil)

const identityColumns = `id, wallet_address, COALESCE(trader_number, 0), bio, country,
	favourite_ct_account, worst_ct_account, favourite_trading_venue,
	asset_choice_6m, twitter_account, is_filler, created_at`

func scanIdentity(row pgx.Row) (*model.Identity, error) {
	var id model.Identity
	err := row.Scan(&id.ID, &id.WalletAddress, &id.TraderNumber, &id.Bio, &id.Country,
		&id.FavouriteCT, &id.WorstCT, &id.TradingVenue,
		&id.AssetChoice6M, &id.Twitter, &id.IsFiller, &id.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *PostgresRepository) UpsertIdentity(ctx context.Context, wallet string) (*model.Identity, bool, error) {
	existing, err := r.GetIdentity(ctx, wallet)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, false, err
	}

	newID := uuid.NewString()
	query, args, err := psql.Insert("users").
		Columns("id", "wallet_address").
		Values(newID, wallet).
		Suffix("ON CONFLICT (wallet_address) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, false, err
	}
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("insert identity: %w", err)
	}

	created := tag.RowsAffected() > 0
	identity, err := r.GetIdentity(ctx, wallet)
	return identity, created, err
}

func (r *PostgresRepository) GetIdentity(ctx context.Context, wallet string) (*model.Identity, error) {
	query, args, err := psql.Select(identityColumns).
		From("users").
		Where(sq.Eq{"wallet_address": wallet}).
		ToSql()
	if err != nil {
		return nil, err
	}
	identity, err := scanIdentity(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("identity %s: %w", wallet, model.ErrNotFound)
	}
	return identity, err
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, wallet string, fields model.ProfileUpdate) (*model.Identity, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	update := psql.Update("users").Where(sq.Eq{"wallet_address": wallet})
	set := func(col string, v *string) {
		if v != nil {
			update = update.Set(col, *v)
		}
	}
	set("bio", fields.Bio)
	set("country", fields.Country)
	set("favourite_ct_account", fields.FavouriteCT)
	set("worst_ct_account", fields.WorstCT)
	set("favourite_trading_venue", fields.TradingVenue)
	set("asset_choice_6m", fields.AssetChoice6M)
	set("twitter_account", fields.Twitter)
	update = update.Set("is_filler", false)

	query, args, err := update.ToSql()
	if err != nil {
		return nil, err
	}
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("identity %s: %w", wallet, model.ErrNotFound)
	}

	// first completion gets the next trader number
	_, err = tx.Exec(ctx, `
		UPDATE users
		SET trader_number = (SELECT COALESCE(MAX(trader_number), 0) + 1 FROM users)
		WHERE wallet_address = $1 AND trader_number IS NULL`, wallet)
	if err != nil {
		return nil, fmt.Errorf("assign trader number: %w", err)
	}

	row := tx.QueryRow(ctx, `SELECT `+identityColumns+` FROM users WHERE wallet_address = $1`, wallet)
	identity, err := scanIdentity(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return identity, nil
}

func (r *PostgresRepository) ListIdentities(ctx context.Context) ([]*model.Identity, error) {
	query, args, err := psql.Select(identityColumns).
		From("users").
		Where(sq.And{sq.NotEq{"bio": ""}, sq.Eq{"is_filler": false}}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Identity
	for rows.Next() {
		id, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CountIdentities(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *PostgresRepository) SeedFillerIdentity(ctx context.Context, wallet, bio string) error {
	query, args, err := psql.Insert("users").
		Columns("id", "wallet_address", "bio", "is_filler").
		Values(uuid.NewString(), wallet, bio, true).
		Suffix("ON CONFLICT (wallet_address) DO NOTHING").
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query, args...)
	return err
}

func (r *PostgresRepository) InsertSwipe(ctx context.Context, swipe *model.Swipe) error {
	query, args, err := psql.Insert("swipes").
		Columns("id", "user_id", "target_wallet", "direction", "created_at").
		Values(swipe.ID, swipe.ActorID, swipe.TargetWallet, string(swipe.Direction), swipe.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query, args...)
	return err
}

func (r *PostgresRepository) HasReciprocalRightSwipe(ctx context.Context, actorWallet, targetWallet string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM swipes s
			JOIN users u ON s.user_id = u.id
			WHERE u.wallet_address = $1
			  AND s.target_wallet = $2
			  AND s.direction = 'right'
		)`, targetWallet, actorWallet).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) ListSwipedTargets(ctx context.Context, actorID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT target_wallet FROM swipes WHERE user_id = $1`, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) InsertMatch(ctx context.Context, match *model.Match) error {
	query, args, err := psql.Insert("matches").
		Columns("id", "user1_wallet", "user2_wallet", "chat_room_id", "created_at").
		Values(match.ID, match.WalletA, match.WalletB, match.ChatRoomID, match.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	// the unique pair index rejects a concurrent double-create
	_, err = r.pool.Exec(ctx, query, args...)
	return err
}

func (r *PostgresRepository) FindMatchByPair(ctx context.Context, walletA, walletB string) (*model.Match, error) {
	var m model.Match
	err := r.pool.QueryRow(ctx, `
		SELECT id, user1_wallet, user2_wallet, chat_room_id, created_at
		FROM matches
		WHERE (user1_wallet = $1 AND user2_wallet = $2)
		   OR (user1_wallet = $2 AND user2_wallet = $1)`, walletA, walletB).
		Scan(&m.ID, &m.WalletA, &m.WalletB, &m.ChatRoomID, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) ListMatches(ctx context.Context, wallet string) ([]*model.Match, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user1_wallet, user2_wallet, chat_room_id, created_at
		FROM matches
		WHERE user1_wallet = $1 OR user2_wallet = $1
		ORDER BY created_at DESC`, wallet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Match
	for rows.Next() {
		var m model.Match
		if err := rows.Scan(&m.ID, &m.WalletA, &m.WalletB, &m.ChatRoomID, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) InsertMessage(ctx context.Context, msg *model.Message) error {
	query, args, err := psql.Insert("messages").
		Columns("id", "chat_room_id", "sender_wallet", "message", "created_at").
		Values(msg.ID, msg.ChatRoomID, msg.SenderWallet, msg.Text, msg.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query, args...)
	return err
}

func (r *PostgresRepository) ListMessages(ctx context.Context, roomID string, limit int) ([]*model.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, chat_room_id, sender_wallet, message, created_at
		FROM messages
		WHERE chat_room_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, roomID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var page []*model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ChatRoomID, &m.SenderWallet, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		page = append(page, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reverseMessages(page), nil
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// reverseMessages flips a newest-first page into delivery order.
func reverseMessages(msgs []*model.Message) []*model.Message {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs
}
