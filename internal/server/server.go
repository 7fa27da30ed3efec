package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/high-society/auction-server-go/internal/config"
	"github.com/high-society/auction-server-go/internal/room"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Identity resolution and origin policy belong to the deployment
	// front door, not this server.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server serves the websocket endpoint and a health check.
type Server struct {
	cfg    config.ServerConfig
	logger *zap.Logger
	hub    *Hub
	rooms  *room.Manager
}

// New creates the HTTP/WebSocket server.
func New(cfg config.ServerConfig, hub *Hub, rooms *room.Manager, logger *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		hub:    hub,
		rooms:  rooms,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// handleWS upgrades the connection and binds it to a room. A request
// without player_id joins as an observer. Identity is taken at face value;
// verifying it is the caller's concern.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	instanceID := query.Get("instance_id")
	if instanceID == "" {
		http.Error(w, "instance_id is required", http.StatusBadRequest)
		return
	}
	playerID := query.Get("player_id")
	name := query.Get("name")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("websocket upgrade failed", zap.Error(err))
		}
		return
	}

	rm := s.rooms.FindOrCreate(instanceID)
	if playerID != "" {
		rm.Join(playerID, name)
	}

	client := newClient(s.hub, conn, rm.ID, playerID)
	s.hub.register(client)

	go client.writePump()
	go client.readPump()

	s.hub.broadcastRoomState(rm)
	s.hub.pushGameStateTo(client)

	if s.logger != nil {
		s.logger.Info("client connected",
			zap.String("room_id", rm.ID),
			zap.String("player_id", playerID),
			zap.Bool("observer", playerID == ""),
		)
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.cfg.Address,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		if s.logger != nil {
			s.logger.Info("starting websocket server", zap.String("address", s.cfg.Address))
		}
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
