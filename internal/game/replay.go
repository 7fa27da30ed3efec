package game

import (
	"fmt"
	"math/rand"
	"sync"
)

// ActionKind discriminates recorded player actions.
type ActionKind string

const (
	ActionBid  ActionKind = "BID"
	ActionPass ActionKind = "PASS"
)

// Action is one accepted player action. Rejected actions are never recorded:
// they leave the state untouched, so a replay only needs the accepted ones.
type Action struct {
	Kind     ActionKind `json:"kind"`
	PlayerID string     `json:"player_id"`
	Cards    []int      `json:"cards,omitempty"`
}

// Replay records everything needed to reproduce a game: the seed that drove
// the initial shuffles and the ordered accepted actions. All randomness is
// confined to initialization, so re-applying the log against a reseeded
// state is fully deterministic.
type Replay struct {
	Seed      int64
	PlayerIDs []string

	mu      sync.RWMutex
	actions []Action
}

// NewReplay starts a replay log for a game dealt with the given seed.
func NewReplay(seed int64, playerIDs []string) *Replay {
	return &Replay{
		Seed:      seed,
		PlayerIDs: append([]string(nil), playerIDs...),
		actions:   make([]Action, 0, 64),
	}
}

// Record appends an accepted action to the log.
func (r *Replay) Record(action Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
}

// Actions returns a copy of the recorded action log.
func (r *Replay) Actions() []Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Action(nil), r.actions...)
}

// Size returns the number of recorded actions.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}

// Rebuild re-deals the game from the recorded seed and re-applies the action
// log. Every recorded action must be accepted again; a rejection means the
// log and the engine have diverged.
func (r *Replay) Rebuild() (*State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, err := NewState(r.PlayerIDs, rand.New(rand.NewSource(r.Seed)))
	if err != nil {
		return nil, fmt.Errorf("failed to re-deal game: %w", err)
	}

	for i, action := range r.actions {
		switch action.Kind {
		case ActionBid:
			if outcome := state.PlaceBid(action.PlayerID, action.Cards); !outcome.Success {
				return nil, fmt.Errorf("replay diverged at action %d: bid by %s rejected with %s", i, action.PlayerID, outcome.Code)
			}
		case ActionPass:
			if outcome := state.Pass(action.PlayerID); !outcome.Success {
				return nil, fmt.Errorf("replay diverged at action %d: pass by %s rejected with %s", i, action.PlayerID, outcome.Code)
			}
		default:
			return nil, fmt.Errorf("replay contains unknown action kind %q at index %d", action.Kind, i)
		}
	}

	return state, nil
}
