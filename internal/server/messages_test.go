package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeMessage(t *testing.T) {
	data, err := encodeMessage(msgError, errorPayload{Message: "bid rejected", Code: "BID_TOO_LOW"})
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.JSONEq(t, `"error"`, string(decoded["type"]))
	assert.JSONEq(t, `{"message":"bid rejected","code":"BID_TOO_LOW"}`, string(decoded["data"]))
}

func TestEncodeMessageOmitsEmptyData(t *testing.T) {
	data, err := encodeMessage(msgLobbyStart, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"lobby:start"}`, string(data))
}

func TestClientMessageDecoding(t *testing.T) {
	var msg clientMessage
	require.NoError(t, json.Unmarshal([]byte(`{"type":"game:bid","cards":[5,10]}`), &msg))
	assert.Equal(t, msgGameBid, msg.Type)
	assert.Equal(t, []int{5, 10}, msg.Cards)

	msg = clientMessage{}
	require.NoError(t, json.Unmarshal([]byte(`{"type":"game:pass"}`), &msg))
	assert.Equal(t, msgGamePass, msg.Type)
	assert.Empty(t, msg.Cards)
}
