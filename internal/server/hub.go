package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/high-society/auction-server-go/internal/game"
	"github.com/high-society/auction-server-go/internal/room"
)

const actionTimeout = 5 * time.Second

// Hub fans room and game updates out to connected clients and routes client
// actions into the managers. Per-room action ordering is guaranteed by the
// game manager's per-room lock, so the hub itself stays lock-light.
type Hub struct {
	logger *zap.Logger
	rooms  *room.Manager
	games  *game.Manager

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

// NewHub creates a hub over the given managers.
func NewHub(rooms *room.Manager, games *game.Manager, logger *zap.Logger) *Hub {
	return &Hub{
		logger:  logger,
		rooms:   rooms,
		games:   games,
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	if h.clients[c.roomID] == nil {
		h.clients[c.roomID] = make(map[*Client]struct{})
	}
	h.clients[c.roomID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if set, ok := h.clients[c.roomID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			c.close()
			if len(set) == 0 {
				delete(h.clients, c.roomID)
			}
		}
	}
	h.mu.Unlock()

	if c.playerID != "" {
		if r, ok := h.rooms.Get(c.roomID); ok {
			r.Leave(c.playerID)
			h.broadcastRoomState(r)
		}
	}
}

// roomClients returns a snapshot of a room's clients.
func (h *Hub) roomClients(roomID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.clients[roomID]
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	return clients
}

// handleMessage dispatches one decoded client message.
func (h *Hub) handleMessage(c *Client, data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("malformed message", "")
		return
	}

	r, ok := h.rooms.Get(c.roomID)
	if !ok {
		c.sendError("room not found", "")
		return
	}

	switch msg.Type {
	case msgLobbyJoin, msgLobbyLeave, msgLobbyReady, msgLobbyUnready, msgLobbyStart:
		h.handleLobby(c, r, msg.Type)
	case msgGameBid:
		h.handleBid(c, msg.Cards)
	case msgGamePass:
		h.handlePass(c, r)
	case msgGameState:
		h.pushGameStateTo(c)
	default:
		c.sendError("unknown message type", "")
	}
}

func (h *Hub) handleLobby(c *Client, r *room.Room, msgType string) {
	if c.observer() {
		c.sendError("observers cannot act", "")
		return
	}

	var err error
	switch msgType {
	case msgLobbyJoin:
		_, err = r.JoinLobby(c.playerID)
	case msgLobbyLeave:
		_, err = r.LeaveLobby(c.playerID)
	case msgLobbyReady:
		_, err = r.SetReady(c.playerID, true)
	case msgLobbyUnready:
		_, err = r.SetReady(c.playerID, false)
	case msgLobbyStart:
		err = h.startGame(c, r)
	}
	if err != nil {
		c.sendError(err.Error(), "")
		return
	}

	h.broadcastRoomState(r)
}

func (h *Hub) startGame(c *Client, r *room.Room) error {
	players, err := r.Start()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()
	if err := h.games.StartGame(ctx, r.ID, players); err != nil {
		r.Reopen()
		return err
	}

	if h.logger != nil {
		h.logger.Info("game started from lobby",
			zap.String("room_id", r.ID),
			zap.Strings("players", players),
		)
	}
	h.pushGameState(r.ID)
	return nil
}

func (h *Hub) handleBid(c *Client, cards []int) {
	if c.observer() {
		c.sendError("observers cannot act", "")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	outcome, err := h.games.PlaceBid(ctx, c.roomID, c.playerID, cards)
	if err != nil {
		c.sendError("bid failed", "")
		if h.logger != nil {
			h.logger.Error("bid action failed",
				zap.String("room_id", c.roomID),
				zap.Error(err),
			)
		}
		return
	}
	if !outcome.Success {
		c.sendError("bid rejected", string(outcome.Code))
		return
	}

	h.pushGameState(c.roomID)
}

func (h *Hub) handlePass(c *Client, r *room.Room) {
	if c.observer() {
		c.sendError("observers cannot act", "")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	outcome, err := h.games.Pass(ctx, c.roomID, c.playerID)
	if err != nil {
		c.sendError("pass failed", "")
		if h.logger != nil {
			h.logger.Error("pass action failed",
				zap.String("room_id", c.roomID),
				zap.Error(err),
			)
		}
		return
	}
	if !outcome.Success {
		c.sendError("pass rejected", string(outcome.Code))
		return
	}

	h.pushGameState(c.roomID)

	if outcome.GameEnded {
		h.finishGame(c.roomID, r)
	}
}

// finishGame broadcasts final scores and resets the room lobby.
func (h *Hub) finishGame(roomID string, r *room.Room) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	result, err := h.games.FinalScores(ctx, roomID, r.PlayerNames())
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to compute final scores",
				zap.String("room_id", roomID),
				zap.Error(err),
			)
		}
		return
	}

	r.Finish()
	h.broadcast(roomID, msgGameResult, result)
	h.broadcastRoomState(r)
}

// pushGameState sends every connected client its own projection: seated
// players get the participant view, everyone else the observer view.
func (h *Hub) pushGameState(roomID string) {
	for _, c := range h.roomClients(roomID) {
		h.pushGameStateTo(c)
	}
}

func (h *Hub) pushGameStateTo(c *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	var (
		data []byte
		err  error
	)
	if c.observer() {
		var view game.ObserverView
		if view, err = h.games.ObserverView(ctx, c.roomID); err == nil {
			data, err = encodeMessage(msgGameState, view)
		}
	} else {
		var view game.ParticipantView
		if view, err = h.games.ParticipantView(ctx, c.roomID, c.playerID); err == nil {
			data, err = encodeMessage(msgGameState, view)
		}
	}
	if err != nil {
		if h.logger != nil {
			h.logger.Debug("no game state to push",
				zap.String("room_id", c.roomID),
				zap.Error(err),
			)
		}
		return
	}
	c.enqueue(data)
}

// broadcastRoomState sends the room snapshot to every client in the room.
func (h *Hub) broadcastRoomState(r *room.Room) {
	h.broadcast(r.ID, msgRoomState, r.Snapshot())
}

func (h *Hub) broadcast(roomID, msgType string, payload interface{}) {
	data, err := encodeMessage(msgType, payload)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to encode broadcast",
				zap.String("type", msgType),
				zap.Error(err),
			)
		}
		return
	}
	for _, c := range h.roomClients(roomID) {
		c.enqueue(data)
	}
}

func (c *Client) sendError(message, code string) {
	data, err := encodeMessage(msgError, errorPayload{Message: message, Code: code})
	if err != nil {
		return
	}
	c.enqueue(data)
}
