package room

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status is the lifecycle state of a room.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusPlaying  Status = "PLAYING"
	StatusFinished Status = "FINISHED"
)

// Player is one member of a room. InLobby and Ready gate game start;
// Online tracks connection presence for display only.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Online  bool   `json:"online"`
	InLobby bool   `json:"in_lobby"`
	Ready   bool   `json:"ready"`
}

// Room is a game room and its membership.
type Room struct {
	ID     string
	Status Status

	mu      sync.Mutex
	players map[string]*Player
	order   []string
}

// View is the room snapshot broadcast to clients.
type View struct {
	ID      string   `json:"id"`
	Status  Status   `json:"status"`
	Players []Player `json:"players"`
}

// Manager owns all rooms, keyed by an external instance identifier so the
// same lobby maps to the same room across connections.
type Manager struct {
	logger *zap.Logger

	mu         sync.RWMutex
	rooms      map[string]*Room
	byInstance map[string]string
}

// NewManager creates an empty room manager.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		logger:     logger,
		rooms:      make(map[string]*Room),
		byInstance: make(map[string]string),
	}
}

// FindOrCreate returns the room for an instance identifier, creating it on
// first use.
func (m *Manager) FindOrCreate(instanceID string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	if roomID, ok := m.byInstance[instanceID]; ok {
		return m.rooms[roomID]
	}

	room := &Room{
		ID:      uuid.New().String(),
		Status:  StatusWaiting,
		players: make(map[string]*Player),
	}
	m.rooms[room.ID] = room
	m.byInstance[instanceID] = room.ID

	if m.logger != nil {
		m.logger.Info("room created",
			zap.String("room_id", room.ID),
			zap.String("instance_id", instanceID),
		)
	}
	return room
}

// Get returns a room by its identifier.
func (m *Manager) Get(roomID string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[roomID]
	return room, ok
}

// Join adds a player to the room, or marks a returning player online again.
func (r *Room) Join(playerID, name string) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.players[playerID]; ok {
		p.Online = true
		if name != "" {
			p.Name = name
		}
		return p.clone()
	}

	p := &Player{ID: playerID, Name: name, Online: true}
	r.players[playerID] = p
	r.order = append(r.order, playerID)
	return p.clone()
}

// Leave marks a player offline. Membership survives so a returning player
// keeps their seat and lobby standing.
func (r *Room) Leave(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return false
	}
	p.Online = false
	return true
}

// JoinLobby seats a player for the next game.
func (r *Room) JoinLobby(playerID string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusWaiting {
		return nil, fmt.Errorf("room %s is not accepting lobby changes", r.ID)
	}
	p, ok := r.players[playerID]
	if !ok {
		return nil, fmt.Errorf("player %s is not in room %s", playerID, r.ID)
	}
	p.InLobby = true
	return p.clone(), nil
}

// LeaveLobby unseats a player and clears their ready flag.
func (r *Room) LeaveLobby(playerID string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusWaiting {
		return nil, fmt.Errorf("room %s is not accepting lobby changes", r.ID)
	}
	p, ok := r.players[playerID]
	if !ok {
		return nil, fmt.Errorf("player %s is not in room %s", playerID, r.ID)
	}
	p.InLobby = false
	p.Ready = false
	return p.clone(), nil
}

// SetReady flips a seated player's ready flag.
func (r *Room) SetReady(playerID string, ready bool) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return nil, fmt.Errorf("player %s is not in room %s", playerID, r.ID)
	}
	if !p.InLobby {
		return nil, fmt.Errorf("player %s has not joined the lobby", playerID)
	}
	p.Ready = ready
	return p.clone(), nil
}

// Start gates the transition to playing: at least two seated players, all of
// them ready. Returns the seated player identifiers in join order.
func (r *Room) Start() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusWaiting {
		return nil, fmt.Errorf("room %s already started", r.ID)
	}

	seated := make([]string, 0, len(r.order))
	for _, id := range r.order {
		p := r.players[id]
		if !p.InLobby {
			continue
		}
		if !p.Ready {
			return nil, fmt.Errorf("player %s is not ready", id)
		}
		seated = append(seated, id)
	}
	if len(seated) < 2 {
		return nil, fmt.Errorf("need at least 2 lobby players to start, have %d", len(seated))
	}

	r.Status = StatusPlaying
	return seated, nil
}

// Finish marks the game over and resets lobby seats for the next game.
func (r *Room) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Status = StatusFinished
	for _, p := range r.players {
		p.InLobby = false
		p.Ready = false
	}
}

// Reopen returns the room to the waiting state. Used after a finished game
// and to roll back a start that failed downstream.
func (r *Room) Reopen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = StatusWaiting
}

// PlayerNames returns the display names of all members.
func (r *Room) PlayerNames() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make(map[string]string, len(r.players))
	for id, p := range r.players {
		names[id] = p.Name
	}
	return names
}

// IsMember reports whether a player belongs to the room.
func (r *Room) IsMember(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.players[playerID]
	return ok
}

// Snapshot returns the broadcastable view of the room.
func (r *Room) Snapshot() View {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := View{
		ID:      r.ID,
		Status:  r.Status,
		Players: make([]Player, 0, len(r.order)),
	}
	for _, id := range r.order {
		view.Players = append(view.Players, *r.players[id].clone())
	}
	return view
}

func (p *Player) clone() *Player {
	c := *p
	return &c
}
