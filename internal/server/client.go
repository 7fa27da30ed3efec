package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
	sendBuffer     = 32
)

// Client is one websocket connection bound to a room. A client with an
// empty playerID is an observer and only ever receives redacted views.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	roomID   string
	playerID string

	// mu guards closed so a broadcast holding a stale client snapshot can
	// never write to a channel the hub has already closed.
	mu     sync.Mutex
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn, roomID, playerID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		roomID:   roomID,
		playerID: playerID,
	}
}

func (c *Client) observer() bool {
	return c.playerID == ""
}

// readPump reads client messages and dispatches them to the hub until the
// connection drops.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				if c.hub.logger != nil {
					c.hub.logger.Debug("websocket read error",
						zap.String("room_id", c.roomID),
						zap.String("player_id", c.playerID),
						zap.Error(err),
					)
				}
			}
			return
		}
		c.hub.handleMessage(c, data)
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings. Closing the send channel terminates it.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue drops the message if the client is closed or its buffer is full
// rather than blocking the hub.
func (c *Client) enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		if c.hub.logger != nil {
			c.hub.logger.Warn("dropping message for slow client",
				zap.String("room_id", c.roomID),
				zap.String("player_id", c.playerID),
			)
		}
	}
}

// close shuts the send channel exactly once, which terminates writePump.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
