package server

import "encoding/json"

// Client-to-server message types.
const (
	msgLobbyJoin    = "lobby:join"
	msgLobbyLeave   = "lobby:leave"
	msgLobbyReady   = "lobby:ready"
	msgLobbyUnready = "lobby:unready"
	msgLobbyStart   = "lobby:start"
	msgGameBid      = "game:bid"
	msgGamePass     = "game:pass"
	msgGameState    = "game:state"
)

// Server-to-client message types.
const (
	msgRoomState  = "room:state"
	msgGameResult = "game:result"
	msgError      = "error"
)

// clientMessage is the envelope for everything a client sends.
type clientMessage struct {
	Type  string `json:"type"`
	Cards []int  `json:"cards,omitempty"`
}

// serverMessage is the envelope for everything the server sends. Data is
// always a projection or outcome, never raw game state.
type serverMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

func encodeMessage(msgType string, data interface{}) ([]byte, error) {
	return json.Marshal(serverMessage{Type: msgType, Data: data})
}

// errorPayload carries a human-readable message and, for rejected game
// actions, the engine's reason code.
type errorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
