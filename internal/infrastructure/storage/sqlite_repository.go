package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"smartMatchApp/internal/domain/model"
	"smartMatchApp/internal/domain/repository"
)

// gorm row types, kept private to this backend

type userRow struct {
	ID            string `gorm:"primaryKey"`
	WalletAddress string `gorm:"uniqueIndex;not null"`
	TraderNumber  *int   `gorm:"uniqueIndex"`
	Bio           string
	Country       string
	FavouriteCT   string `gorm:"column:favourite_ct_account"`
	WorstCT       string `gorm:"column:worst_ct_account"`
	TradingVenue  string `gorm:"column:favourite_trading_venue"`
	AssetChoice6M string `gorm:"column:asset_choice_6m"`
	Twitter       string `gorm:"column:twitter_account"`
	IsFiller      bool
	CreatedAt     time.Time
}

func (userRow) TableName() string { return "users" }

type swipeRow struct {
	ID           string `gorm:"primaryKey"`
	UserID       string `gorm:"index;not null"`
	TargetWallet string `gorm:"index;not null"`
	Direction    string `gorm:"not null"`
	CreatedAt    time.Time
}

func (swipeRow) TableName() string { return "swipes" }

type matchRow struct {
	ID          string `gorm:"primaryKey"`
	User1Wallet string `gorm:"not null"`
	User2Wallet string `gorm:"not null"`
	PairKey     string `gorm:"uniqueIndex;not null"` // sorted "a|b", one match per pair
	ChatRoomID  string `gorm:"not null"`
	CreatedAt   time.Time
}

func (matchRow) TableName() string { return "matches" }

type messageRow struct {
	ID           string    `gorm:"primaryKey"`
	ChatRoomID   string    `gorm:"index;not null"`
	SenderWallet string    `gorm:"not null"`
	Message      string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"index"`
}

func (messageRow) TableName() string { return "messages" }

// SQLiteRepository implements repository.Store on a local SQLite file.
// SQLite allows a single writer, so writes are serialized with a mutex.
type SQLiteRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&userRow{}, &swipeRow{}, &matchRow{}, &messageRow{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

var _ repository.Store = (*SQLiteRepository)(nil)

func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

func toIdentity(r *userRow) *model.Identity {
	num := 0
	if r.TraderNumber != nil {
		num = *r.TraderNumber
	}
	return &model.Identity{
		ID:            r.ID,
		WalletAddress: r.WalletAddress,
		TraderNumber:  num,
		Bio:           r.Bio,
		Country:       r.Country,
		FavouriteCT:   r.FavouriteCT,
		WorstCT:       r.WorstCT,
		TradingVenue:  r.TradingVenue,
		AssetChoice6M: r.AssetChoice6M,
		Twitter:       r.Twitter,
		IsFiller:      r.IsFiller,
		CreatedAt:     r.CreatedAt,
	}
}

func (s *SQLiteRepository) UpsertIdentity(ctx context.Context, wallet string) (*model.Identity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var row userRow
	err := s.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&row).Error
	if err == nil {
		return toIdentity(&row), false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	row = userRow{ID: uuid.NewString(), WalletAddress: wallet, CreatedAt: time.Now()}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, false, fmt.Errorf("insert identity: %w", err)
	}
	return toIdentity(&row), true, nil
}

func (s *SQLiteRepository) GetIdentity(ctx context.Context, wallet string) (*model.Identity, error) {
	var row userRow
	err := s.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("identity %s: %w", wallet, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return toIdentity(&row), nil
}

func (s *SQLiteRepository) UpdateProfile(ctx context.Context, wallet string, fields model.ProfileUpdate) (*model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out *model.Identity
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row userRow
		if err := tx.Where("wallet_address = ?", wallet).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("identity %s: %w", wallet, model.ErrNotFound)
			}
			return err
		}

		apply := func(dst *string, v *string) {
			if v != nil {
				*dst = *v
			}
		}
		apply(&row.Bio, fields.Bio)
		apply(&row.Country, fields.Country)
		apply(&row.FavouriteCT, fields.FavouriteCT)
		apply(&row.WorstCT, fields.WorstCT)
		apply(&row.TradingVenue, fields.TradingVenue)
		apply(&row.AssetChoice6M, fields.AssetChoice6M)
		apply(&row.Twitter, fields.Twitter)
		row.IsFiller = false

		if row.TraderNumber == nil {
			var maxNum int
			if err := tx.Model(&userRow{}).
				Select("COALESCE(MAX(trader_number), 0)").
				Scan(&maxNum).Error; err != nil {
				return err
			}
			next := maxNum + 1
			row.TraderNumber = &next
		}

		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		out = toIdentity(&row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteRepository) ListIdentities(ctx context.Context) ([]*model.Identity, error) {
	var rows []userRow
	err := s.db.WithContext(ctx).
		Where("bio <> ? AND is_filler = ?", "", false).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*model.Identity, 0, len(rows))
	for i := range rows {
		out = append(out, toIdentity(&rows[i]))
	}
	return out, nil
}

func (s *SQLiteRepository) CountIdentities(ctx context.Context) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&userRow{}).Count(&n).Error
	return int(n), err
}

func (s *SQLiteRepository) SeedFillerIdentity(ctx context.Context, wallet, bio string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	if err := s.db.WithContext(ctx).Model(&userRow{}).
		Where("wallet_address = ?", wallet).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	row := userRow{
		ID:            uuid.NewString(),
		WalletAddress: wallet,
		Bio:           bio,
		IsFiller:      true,
		CreatedAt:     time.Now(),
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *SQLiteRepository) InsertSwipe(ctx context.Context, swipe *model.Swipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := swipeRow{
		ID:           swipe.ID,
		UserID:       swipe.ActorID,
		TargetWallet: swipe.TargetWallet,
		Direction:    string(swipe.Direction),
		CreatedAt:    swipe.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *SQLiteRepository) HasReciprocalRightSwipe(ctx context.Context, actorWallet, targetWallet string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&swipeRow{}).
		Joins("JOIN users ON users.id = swipes.user_id").
		Where("users.wallet_address = ? AND swipes.target_wallet = ? AND swipes.direction = ?",
			targetWallet, actorWallet, "right").
		Count(&count).Error
	return count > 0, err
}

func (s *SQLiteRepository) ListSwipedTargets(ctx context.Context, actorID string) ([]string, error) {
	var targets []string
	err := s.db.WithContext(ctx).Model(&swipeRow{}).
		Distinct("target_wallet").
		Where("user_id = ?", actorID).
		Pluck("target_wallet", &targets).Error
	return targets, err
}

func (s *SQLiteRepository) InsertMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := matchRow{
		ID:          match.ID,
		User1Wallet: match.WalletA,
		User2Wallet: match.WalletB,
		PairKey:     pairKey(match.WalletA, match.WalletB),
		ChatRoomID:  match.ChatRoomID,
		CreatedAt:   match.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *SQLiteRepository) FindMatchByPair(ctx context.Context, walletA, walletB string) (*model.Match, error) {
	var row matchRow
	err := s.db.WithContext(ctx).Where("pair_key = ?", pairKey(walletA, walletB)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &model.Match{
		ID:         row.ID,
		WalletA:    row.User1Wallet,
		WalletB:    row.User2Wallet,
		ChatRoomID: row.ChatRoomID,
		CreatedAt:  row.CreatedAt,
	}, nil
}

func (s *SQLiteRepository) ListMatches(ctx context.Context, wallet string) ([]*model.Match, error) {
	var rows []matchRow
	err := s.db.WithContext(ctx).
		Where("user1_wallet = ? OR user2_wallet = ?", wallet, wallet).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*model.Match, 0, len(rows))
	for _, r := range rows {
		out = append(out, &model.Match{
			ID:         r.ID,
			WalletA:    r.User1Wallet,
			WalletB:    r.User2Wallet,
			ChatRoomID: r.ChatRoomID,
			CreatedAt:  r.CreatedAt,
		})
	}
	return out, nil
}

func (s *SQLiteRepository) InsertMessage(ctx context.Context, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := messageRow{
		ID:           msg.ID,
		ChatRoomID:   msg.ChatRoomID,
		SenderWallet: msg.SenderWallet,
		Message:      msg.Text,
		CreatedAt:    msg.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *SQLiteRepository) ListMessages(ctx context.Context, roomID string, limit int) ([]*model.Message, error) {
	var rows []messageRow
	err := s.db.WithContext(ctx).
		Where("chat_room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*model.Message, 0, len(rows))
	for _, r := range rows {
		out = append(out, &model.Message{
			ID:           r.ID,
			ChatRoomID:   r.ChatRoomID,
			SenderWallet: r.SenderWallet,
			Text:         r.Message,
			CreatedAt:    r.CreatedAt,
		})
	}
	return reverseMessages(out), nil
}

func (s *SQLiteRepository) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
