package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store persists serialized game state keyed by room. Implementations must
// return ErrNotFound when no state exists for a room.
type Store interface {
	Save(ctx context.Context, roomID string, data []byte) error
	Load(ctx context.Context, roomID string) ([]byte, error)
	Delete(ctx context.Context, roomID string) error
}

// instance is one room's game. Its mutex serializes every read-modify-write
// of the state: the engine itself has no internal locking and assumes
// exactly one in-flight mutation at a time.
type instance struct {
	mu     sync.Mutex
	state  *State
	replay *Replay
}

// Manager owns all game instances, one per room. Different rooms are fully
// independent and may be acted on in parallel; actions against the same
// room are serialized through the instance lock. Every mutation is written
// through to the store before the result is returned.
type Manager struct {
	logger *zap.Logger
	store  Store

	mu    sync.RWMutex
	rooms map[string]*instance
}

// NewManager creates a game manager backed by the given store.
func NewManager(store Store, logger *zap.Logger) *Manager {
	return &Manager{
		logger: logger,
		store:  store,
		rooms:  make(map[string]*instance),
	}
}

// StartGame deals a new game for a room with a time-derived seed.
func (m *Manager) StartGame(ctx context.Context, roomID string, playerIDs []string) error {
	return m.StartGameWithSeed(ctx, roomID, playerIDs, time.Now().UnixNano())
}

// StartGameWithSeed deals a new game from an explicit seed. The seed fixes
// both shuffles, so the same seed and action sequence reproduce the game.
func (m *Manager) StartGameWithSeed(ctx context.Context, roomID string, playerIDs []string, seed int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rooms[roomID]; exists {
		return fmt.Errorf("game already active for room %s", roomID)
	}

	state, err := NewState(playerIDs, rand.New(rand.NewSource(seed)))
	if err != nil {
		return fmt.Errorf("failed to deal game for room %s: %w", roomID, err)
	}

	inst := &instance{
		state:  state,
		replay: NewReplay(seed, playerIDs),
	}
	if err := m.save(ctx, roomID, inst); err != nil {
		return err
	}
	m.rooms[roomID] = inst

	if m.logger != nil {
		m.logger.Info("game started",
			zap.String("room_id", roomID),
			zap.Strings("players", playerIDs),
			zap.Int64("seed", seed),
		)
	}
	return nil
}

// PlaceBid applies a bid action for a room. The returned outcome carries the
// engine's reason code; the error is reserved for infrastructure failures.
func (m *Manager) PlaceBid(ctx context.Context, roomID, playerID string, cards []int) (BidOutcome, error) {
	inst, err := m.acquire(ctx, roomID)
	if err != nil {
		return BidOutcome{}, err
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()

	outcome := inst.state.PlaceBid(playerID, cards)
	if !outcome.Success {
		if m.logger != nil {
			m.logger.Debug("bid rejected",
				zap.String("room_id", roomID),
				zap.String("player_id", playerID),
				zap.String("code", string(outcome.Code)),
			)
		}
		return outcome, nil
	}

	if inst.replay != nil {
		inst.replay.Record(Action{Kind: ActionBid, PlayerID: playerID, Cards: append([]int(nil), cards...)})
	}
	if err := m.save(ctx, roomID, inst); err != nil {
		return outcome, err
	}

	if m.logger != nil {
		m.logger.Info("bid placed",
			zap.String("room_id", roomID),
			zap.String("player_id", playerID),
			zap.Ints("cards", cards),
		)
	}
	return outcome, nil
}

// Pass applies a pass action for a room.
func (m *Manager) Pass(ctx context.Context, roomID, playerID string) (PassOutcome, error) {
	inst, err := m.acquire(ctx, roomID)
	if err != nil {
		return PassOutcome{}, err
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()

	outcome := inst.state.Pass(playerID)
	if !outcome.Success {
		if m.logger != nil {
			m.logger.Debug("pass rejected",
				zap.String("room_id", roomID),
				zap.String("player_id", playerID),
				zap.String("code", string(outcome.Code)),
			)
		}
		return outcome, nil
	}

	if inst.replay != nil {
		inst.replay.Record(Action{Kind: ActionPass, PlayerID: playerID})
	}
	if err := m.save(ctx, roomID, inst); err != nil {
		return outcome, err
	}

	if m.logger != nil {
		fields := []zap.Field{
			zap.String("room_id", roomID),
			zap.String("player_id", playerID),
			zap.Bool("auction_ended", outcome.AuctionEnded),
			zap.Bool("game_ended", outcome.GameEnded),
		}
		if outcome.Settlement != nil {
			fields = append(fields,
				zap.String("winner_id", outcome.Settlement.WinnerID),
				zap.Int("spent_total", outcome.Settlement.SpentTotal),
			)
		}
		m.logger.Info("pass processed", fields...)
	}
	return outcome, nil
}

// ParticipantView returns the viewer-scoped projection for a seated player.
func (m *Manager) ParticipantView(ctx context.Context, roomID, viewerID string) (ParticipantView, error) {
	inst, err := m.acquire(ctx, roomID)
	if err != nil {
		return ParticipantView{}, err
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.state.BuildParticipantView(viewerID), nil
}

// ObserverView returns the fully-redacted projection.
func (m *Manager) ObserverView(ctx context.Context, roomID string) (ObserverView, error) {
	inst, err := m.acquire(ctx, roomID)
	if err != nil {
		return ObserverView{}, err
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.state.BuildObserverView(), nil
}

// FinalScores computes the end-of-game result for a terminal game.
func (m *Manager) FinalScores(ctx context.Context, roomID string, playerNames map[string]string) (GameEndResult, error) {
	inst, err := m.acquire(ctx, roomID)
	if err != nil {
		return GameEndResult{}, err
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()

	if !inst.state.GameEnded {
		return GameEndResult{}, fmt.Errorf("game for room %s has not ended", roomID)
	}
	return inst.state.FinalScores(playerNames), nil
}

// GameEnded reports whether the room's game is terminal.
func (m *Manager) GameEnded(ctx context.Context, roomID string) (bool, error) {
	inst, err := m.acquire(ctx, roomID)
	if err != nil {
		return false, err
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.state.GameEnded, nil
}

// Replay returns the room's replay log, or nil when the instance was
// recovered from the store (the log does not survive a restart).
func (m *Manager) Replay(roomID string) *Replay {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if inst, ok := m.rooms[roomID]; ok {
		return inst.replay
	}
	return nil
}

// EndGame drops the room's game from memory and from the store.
func (m *Manager) EndGame(ctx context.Context, roomID string) error {
	m.mu.Lock()
	delete(m.rooms, roomID)
	m.mu.Unlock()

	if err := m.store.Delete(ctx, roomID); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete game state for room %s: %w", roomID, err)
	}

	if m.logger != nil {
		m.logger.Info("game ended", zap.String("room_id", roomID))
	}
	return nil
}

// acquire returns the room's instance, recovering it from the store when it
// is not resident (after a restart).
func (m *Manager) acquire(ctx context.Context, roomID string) (*instance, error) {
	m.mu.RLock()
	inst, ok := m.rooms[roomID]
	m.mu.RUnlock()
	if ok {
		return inst, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if inst, ok = m.rooms[roomID]; ok {
		return inst, nil
	}

	data, err := m.store.Load(ctx, roomID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("no game for room %s: %w", roomID, err)
		}
		return nil, fmt.Errorf("failed to load game state for room %s: %w", roomID, err)
	}
	state, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game state for room %s: %w", roomID, err)
	}

	inst = &instance{state: state}
	m.rooms[roomID] = inst

	if m.logger != nil {
		m.logger.Info("game state recovered from store", zap.String("room_id", roomID))
	}
	return inst, nil
}

// save writes the instance's state through to the store. The caller holds
// the instance lock.
func (m *Manager) save(ctx context.Context, roomID string, inst *instance) error {
	data, err := inst.state.Marshal()
	if err != nil {
		return fmt.Errorf("failed to serialize game state for room %s: %w", roomID, err)
	}
	if err := m.store.Save(ctx, roomID, data); err != nil {
		return fmt.Errorf("failed to persist game state for room %s: %w", roomID, err)
	}
	return nil
}
