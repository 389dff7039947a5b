package service_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"smartMatchApp/internal/domain/model"
	"smartMatchApp/internal/domain/repository"
)

// fakeStore is an in-memory Store used by the service tests.
type fakeStore struct {
	mu         sync.Mutex
	identities map[string]*model.Identity // by wallet
	swipes     []*model.Swipe
	matches    []*model.Match
	messages   []*model.Message
	nextTrader int

	// onInsertMatch, when set, intercepts InsertMatch. Tests use it to
	// simulate a concurrent writer winning the pair's unique constraint.
	onInsertMatch func(*model.Match) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{identities: make(map[string]*model.Identity)}
}

func (s *fakeStore) addIdentity(wallet, bio string, filler bool) *model.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := &model.Identity{
		ID:            uuid.NewString(),
		WalletAddress: wallet,
		Bio:           bio,
		IsFiller:      filler,
		CreatedAt:     time.Now(),
	}
	s.identities[wallet] = id
	return id
}

func (s *fakeStore) UpsertIdentity(ctx context.Context, wallet string) (*model.Identity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.identities[wallet]; ok {
		return id, false, nil
	}
	id := &model.Identity{ID: uuid.NewString(), WalletAddress: wallet, CreatedAt: time.Now()}
	s.identities[wallet] = id
	return id, true, nil
}

func (s *fakeStore) GetIdentity(ctx context.Context, wallet string) (*model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.identities[wallet]; ok {
		return id, nil
	}
	return nil, fmt.Errorf("identity %s: %w", wallet, model.ErrNotFound)
}

func (s *fakeStore) UpdateProfile(ctx context.Context, wallet string, fields model.ProfileUpdate) (*model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.identities[wallet]
	if !ok {
		return nil, model.ErrNotFound
	}
	if fields.Bio != nil {
		id.Bio = *fields.Bio
	}
	if id.TraderNumber == 0 {
		s.nextTrader++
		id.TraderNumber = s.nextTrader
	}
	return id, nil
}

func (s *fakeStore) ListIdentities(ctx context.Context) ([]*model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Identity, 0, len(s.identities))
	for _, id := range s.identities {
		if id.Bio != "" && !id.IsFiller {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeStore) CountIdentities(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.identities), nil
}

func (s *fakeStore) SeedFillerIdentity(ctx context.Context, wallet, bio string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[wallet]; ok {
		return nil
	}
	s.identities[wallet] = &model.Identity{
		ID:            uuid.NewString(),
		WalletAddress: wallet,
		Bio:           bio,
		IsFiller:      true,
		CreatedAt:     time.Now(),
	}
	return nil
}

func (s *fakeStore) InsertSwipe(ctx context.Context, swipe *model.Swipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swipes = append(s.swipes, swipe)
	return nil
}

func (s *fakeStore) HasReciprocalRightSwipe(ctx context.Context, actorWallet, targetWallet string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var targetID string
	if id, ok := s.identities[targetWallet]; ok {
		targetID = id.ID
	} else {
		return false, nil
	}
	for _, sw := range s.swipes {
		if sw.ActorID == targetID && sw.TargetWallet == actorWallet && sw.Direction == model.SwipeRight {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) ListSwipedTargets(ctx context.Context, actorID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, sw := range s.swipes {
		if sw.ActorID == actorID {
			out = append(out, sw.TargetWallet)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onInsertMatch != nil {
		return s.onInsertMatch(match)
	}
	for _, m := range s.matches {
		if samePair(m, match.WalletA, match.WalletB) {
			return fmt.Errorf("duplicate pair")
		}
	}
	s.matches = append(s.matches, match)
	return nil
}

func (s *fakeStore) FindMatchByPair(ctx context.Context, walletA, walletB string) (*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if samePair(m, walletA, walletB) {
			return m, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *fakeStore) ListMatches(ctx context.Context, wallet string) ([]*model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Match
	for _, m := range s.matches {
		if m.WalletA == wallet || m.WalletB == wallet {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeStore) InsertMessage(ctx context.Context, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

func (s *fakeStore) ListMessages(ctx context.Context, roomID string, limit int) ([]*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var room []*model.Message
	for _, m := range s.messages {
		if m.ChatRoomID == roomID {
			room = append(room, m)
		}
	}
	if len(room) > limit {
		room = room[len(room)-limit:]
	}
	return room, nil
}

func (s *fakeStore) Close() error { return nil }

func samePair(m *model.Match, a, b string) bool {
	return (m.WalletA == a && m.WalletB == b) || (m.WalletA == b && m.WalletB == a)
}

var _ repository.Store = (*fakeStore)(nil)

// fakeProvider is a scriptable FetchProvider.
type fakeProvider struct {
	mu         sync.Mutex
	configured bool
	statsCalls int
	balCalls   int
	statsFn    func(wallet string, from, to time.Time) (*model.TradingStats, error)
	balanceFn  func(wallet string) (*model.Balance, error)
}

func (p *fakeProvider) FetchStatistics(ctx context.Context, wallet string, from, to time.Time) (*model.TradingStats, error) {
	p.mu.Lock()
	p.statsCalls++
	p.mu.Unlock()
	if p.statsFn == nil {
		return nil, fmt.Errorf("no stats scripted")
	}
	return p.statsFn(wallet, from, to)
}

func (p *fakeProvider) FetchBalance(ctx context.Context, wallet string) (*model.Balance, error) {
	p.mu.Lock()
	p.balCalls++
	p.mu.Unlock()
	if p.balanceFn == nil {
		return nil, fmt.Errorf("no balance scripted")
	}
	return p.balanceFn(wallet)
}

func (p *fakeProvider) Configured() bool { return p.configured }

var _ repository.FetchProvider = (*fakeProvider)(nil)

// fakeBroadcaster records broadcast calls.
type fakeBroadcaster struct {
	mu    sync.Mutex
	calls []broadcastCall
}

type broadcastCall struct {
	roomID string
	msg    *model.Message
}

func (b *fakeBroadcaster) Broadcast(roomID string, msg *model.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcastCall{roomID: roomID, msg: msg})
}
