package rooms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playarena/backend/internal/settlement"
	"github.com/playarena/backend/internal/storesync"
	"github.com/playarena/backend/internal/wallet"
)

var ErrInsufficientBalance = wallet.ErrInsufficientBalance

// CreatePayload carries per-player configuration for create and join
type CreatePayload struct {
	DisplayName string   `json:"display_name"`
	BetAmount   int      `json:"bet_amount"`
	Deck        []string `json:"deck,omitempty"`
}

// persisted is the record shape stored under the namespace key
type persisted struct {
	Rooms []Room `json:"rooms"`
}

// Options tunes a store
type Options struct {
	ShortCodeLength  int
	ShortCodeRetries int
	MinBet           int
	MaxBet           int
	// OnUpdate, when set, is called after every persisted room change
	// (the ws layer publishes it to subscribed clients)
	OnUpdate func(room *Room)
	Clock    func() time.Time
}

func (o *Options) fill() {
	if o.ShortCodeLength == 0 {
		o.ShortCodeLength = 5
	}
	if o.ShortCodeRetries == 0 {
		o.ShortCodeRetries = 50
	}
	if o.MaxBet == 0 {
		o.MaxBet = 10000
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
}

// Store is the per-game-type room collection. It keeps a locally
// materialized copy of the shared record list and funnels every change
// through the sync layer; remote copies are reconciled record-by-record
// with last-writer-wins.
type Store struct {
	game   Game
	syncer *storesync.Syncer
	ledger wallet.Ledger
	opts   Options

	mu    sync.Mutex
	rooms []Room
}

func NewStore(game Game, syncer *storesync.Syncer, ledger wallet.Ledger, opts Options) *Store {
	opts.fill()
	return &Store{
		game:   game,
		syncer: syncer,
		ledger: ledger,
		opts:   opts,
	}
}

func (s *Store) key() string {
	return "rooms:" + string(s.game.Type())
}

// Refresh merges the remote copy of the namespace into the local one
func (s *Store) Refresh(ctx context.Context) error {
	data, err := s.syncer.Get(ctx, s.key())
	if errors.Is(err, storesync.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var remote persisted
	if err := json.Unmarshal(data, &remote); err != nil {
		log.Printf("[ROOMS] malformed remote record for %s: %v", s.key(), err)
		return nil // keep serving the local copy
	}

	s.mu.Lock()
	s.rooms = storesync.MergeByID(s.rooms, remote.Rooms)
	s.mu.Unlock()
	return nil
}

// persistLocked writes the local copy through the sync layer. Bulk flags
// the write past the debounce window (room creation, settlement).
func (s *Store) persistLocked(bulk bool) {
	data, err := json.Marshal(persisted{Rooms: s.rooms})
	if err != nil {
		log.Printf("[ROOMS] marshal failed for %s: %v", s.key(), err)
		return
	}
	s.syncer.Put(s.key(), data, bulk)
}

// CreateRoom opens a room with the caller as host. The bet is debited up
// front into the pool; an account that cannot cover it gets an
// insufficient-balance error and no room is written.
func (s *Store) CreateRoom(ctx context.Context, hostAccount string, payload CreatePayload) (*Room, error) {
	bet := payload.BetAmount
	if bet < s.opts.MinBet || bet > s.opts.MaxBet {
		return nil, fmt.Errorf("bet amount %d out of range [%d,%d]", bet, s.opts.MinBet, s.opts.MaxBet)
	}

	balance, err := s.ledger.Balance(ctx, hostAccount)
	if err != nil {
		return nil, err
	}
	if balance < bet {
		return nil, fmt.Errorf("%w: balance %d, bet %d", ErrInsufficientBalance, balance, bet)
	}

	if err := s.Refresh(ctx); err != nil {
		log.Printf("[ROOMS] refresh before create failed (continuing on local copy): %v", err)
	}

	now := s.opts.Clock()
	room := Room{
		ID:        uuid.NewString(),
		GameType:  s.game.Type(),
		Host:      hostAccount,
		Status:    StatusWaiting,
		BetAmount: bet,
		Pool:      bet,
		CreatedAt: now,
		UpdatedAt: now,
		Players: []Seat{{
			Account:     hostAccount,
			DisplayName: payload.DisplayName,
			Deck:        payload.Deck,
		}},
	}

	if err := s.ledger.Debit(ctx, hostAccount, bet, wallet.KindBet, room.ID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	room.ShortCode = s.newShortCodeLocked()
	s.rooms = append(s.rooms, room)
	s.persistLocked(true)
	s.mu.Unlock()

	log.Printf("[ROOMS] %s room %s created by %s (code=%s bet=%d)", s.game.Type(), room.ID, hostAccount, room.ShortCode, bet)
	s.notify(&room)
	return &room, nil
}

// newShortCodeLocked probes for a code disjoint from every live room's.
// After the retry budget it falls back to a timestamp-derived code; the
// residual collision probability is accepted.
func (s *Store) newShortCodeLocked() string {
	const charset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

	live := make(map[string]bool)
	for _, r := range s.rooms {
		if r.Status != StatusEnded {
			live[r.ShortCode] = true
		}
	}

	rng := rand.New(rand.NewSource(s.opts.Clock().UnixNano()))
	for i := 0; i < s.opts.ShortCodeRetries; i++ {
		code := make([]byte, s.opts.ShortCodeLength)
		for j := range code {
			code[j] = charset[rng.Intn(len(charset))]
		}
		if !live[string(code)] {
			return string(code)
		}
	}

	return fmt.Sprintf("T%d", s.opts.Clock().UnixNano()%100000)
}

// findLocked resolves a room by id or short code (live rooms only for codes)
func (s *Store) findLocked(idOrCode string) *Room {
	for i := range s.rooms {
		if s.rooms[i].ID == idOrCode {
			return &s.rooms[i]
		}
	}
	for i := range s.rooms {
		if s.rooms[i].ShortCode == idOrCode && s.rooms[i].Status != StatusEnded {
			return &s.rooms[i]
		}
	}
	return nil
}

// JoinRoom seats account in a waiting room. Filling the last required seat
// starts the match: the initial round state is computed and the status
// flips in the same write. A failed round computation rolls the join back
// to waiting instead of leaving a broken room behind.
func (s *Store) JoinRoom(ctx context.Context, idOrCode, account string, payload CreatePayload) (*Room, error) {
	if err := s.Refresh(ctx); err != nil {
		log.Printf("[ROOMS] refresh before join failed (continuing on local copy): %v", err)
	}

	s.mu.Lock()
	room := s.findLocked(idOrCode)
	if room == nil {
		s.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	if room.Status != StatusWaiting {
		s.mu.Unlock()
		return nil, ErrRoomBusy
	}
	if account == room.Host {
		s.mu.Unlock()
		return nil, ErrSelfJoin
	}
	if room.Seated(account) {
		s.mu.Unlock()
		return nil, fmt.Errorf("account %s already seated", account)
	}
	if len(room.Players) >= s.game.MaxPlayers() {
		s.mu.Unlock()
		return nil, ErrRoomFull
	}
	bet := room.BetAmount
	roomID := room.ID
	s.mu.Unlock()

	// Debit outside the lock; the seat is taken below only on success
	if err := s.ledger.Debit(ctx, account, bet, wallet.KindBet, roomID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	room = s.findLocked(roomID)
	if room == nil || room.Status != StatusWaiting || len(room.Players) >= s.game.MaxPlayers() {
		s.mu.Unlock()
		// Lost the race while paying; hand the stake back
		if rerr := s.ledger.Credit(ctx, account, bet, wallet.KindRefund, roomID); rerr != nil {
			log.Printf("[ROOMS] refund after lost join race failed for %s: %v", account, rerr)
		}
		return nil, ErrRoomBusy
	}

	room.Players = append(room.Players, Seat{
		Account:     account,
		DisplayName: payload.DisplayName,
		Deck:        payload.Deck,
	})
	room.Pool += bet

	if len(room.Players) == s.game.RequiredPlayers() {
		room.Status = s.game.StartStatus()
		if err := s.game.InitRound(room); err != nil {
			// Roll back: drop the seat, restore waiting, refund
			room.Players = room.Players[:len(room.Players)-1]
			room.Pool -= bet
			room.Status = StatusWaiting
			s.mu.Unlock()
			if rerr := s.ledger.Credit(ctx, account, bet, wallet.KindRefund, roomID); rerr != nil {
				log.Printf("[ROOMS] refund after failed start failed for %s: %v", account, rerr)
			}
			log.Printf("[ROOMS] %s room %s failed to start: %v", s.game.Type(), roomID, err)
			return nil, fmt.Errorf("could not start match: %w", err)
		}
		log.Printf("[ROOMS] %s room %s started with %d players", s.game.Type(), roomID, len(room.Players))
	}

	// Bumped only once the join sticks, so a rolled-back join cannot
	// outrank a newer remote copy in the merge
	room.UpdatedAt = s.opts.Clock()
	s.persistLocked(false)
	out := room.clone()
	s.mu.Unlock()

	s.notify(&out)
	return &out, nil
}

// GetRoom returns a copy of the room, nil when unknown
func (s *Store) GetRoom(id string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room := s.findLocked(id); room != nil {
		out := room.clone()
		return &out
	}
	return nil
}

// GetRooms lists live rooms (ended rooms are excluded)
func (s *Store) GetRooms() []Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		if r.Status != StatusEnded {
			out = append(out, r.clone())
		}
	}
	return out
}

// UpdateGameState replaces the room's round blob wholesale. Dispatch is
// the turn-taking path; this is the raw write underneath it, kept for
// collaborators that compute a next state themselves.
func (s *Store) UpdateGameState(ctx context.Context, roomID string, newState json.RawMessage) (*Room, error) {
	s.mu.Lock()
	room := s.findLocked(roomID)
	if room == nil {
		s.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	if room.Status == StatusEnded {
		s.mu.Unlock()
		return nil, ErrRoomEnded
	}
	if bytes.Equal(room.Round, newState) {
		out := room.clone()
		s.mu.Unlock()
		return &out, nil
	}

	room.Round = append(json.RawMessage(nil), newState...)
	room.UpdatedAt = s.opts.Clock()
	s.persistLocked(false)
	out := room.clone()
	s.mu.Unlock()

	s.notify(&out)
	return &out, nil
}

// DispatchRoomAction is the sole turn-taking entry point. The room's round
// logic runs against the current persisted state; a no-op result causes no
// write. A round that finishes flips the room to ended in the same write
// and triggers settlement.
func (s *Store) DispatchRoomAction(ctx context.Context, roomID, account string, action json.RawMessage) (*Room, error) {
	if err := s.Refresh(ctx); err != nil {
		log.Printf("[ROOMS] refresh before dispatch failed (continuing on local copy): %v", err)
	}

	s.mu.Lock()
	room := s.findLocked(roomID)
	if room == nil {
		s.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	if room.Status == StatusEnded {
		s.mu.Unlock()
		return nil, ErrRoomEnded
	}
	if !room.Seated(account) {
		s.mu.Unlock()
		return nil, ErrNotSeated
	}

	next := room.clone()
	if err := s.game.Apply(&next, account, action); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if next.Status == room.Status && bytes.Equal(next.Round, room.Round) {
		// Nothing changed; save the sync traffic
		out := room.clone()
		s.mu.Unlock()
		return &out, nil
	}

	next.UpdatedAt = s.opts.Clock()
	*room = next
	ended := next.Status == StatusEnded
	s.persistLocked(ended)
	out := next.clone()
	s.mu.Unlock()

	s.notify(&out)

	if ended {
		if err := s.Settle(ctx, out.ID); err != nil {
			log.Printf("[SETTLE] settlement for room %s failed: %v", out.ID, err)
		}
		if updated := s.GetRoom(out.ID); updated != nil {
			out = *updated
		}
	}
	return &out, nil
}

// Settle pays the room's pool to its winners exactly once and flips the
// Distributed flag. Safe to call repeatedly.
func (s *Store) Settle(ctx context.Context, roomID string) error {
	s.mu.Lock()
	room := s.findLocked(roomID)
	if room == nil {
		s.mu.Unlock()
		return ErrRoomNotFound
	}
	if room.Status != StatusEnded || room.Distributed {
		s.mu.Unlock()
		return nil
	}
	winners := s.game.Winners(room)
	pool := room.Pool
	s.mu.Unlock()

	if len(winners) == 0 {
		return nil
	}

	if _, err := settlement.DistributePrize(ctx, s.ledger, roomID, pool, winners); err != nil {
		return err
	}

	s.mu.Lock()
	if room := s.findLocked(roomID); room != nil {
		room.Distributed = true
		room.UpdatedAt = s.opts.Clock()
		s.persistLocked(true)
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) notify(room *Room) {
	if s.opts.OnUpdate != nil {
		s.opts.OnUpdate(room)
	}
}
