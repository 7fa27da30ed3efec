package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// The raw state crosses the persistence boundary as an opaque JSON blob
// keyed by room. The checksum is a guard against divergent replicas and
// replay divergence: two states with equal checksums are game-equivalent.

// serializationVersion is bumped on incompatible snapshot layout changes.
const serializationVersion = 1

type stateEnvelope struct {
	Version int    `json:"version"`
	State   *State `json:"state"`
}

// Marshal serializes the raw state for the opaque store. The result must
// never be sent to a client; clients only ever receive projections.
func (s *State) Marshal() ([]byte, error) {
	data, err := json.Marshal(stateEnvelope{Version: serializationVersion, State: s})
	if err != nil {
		return nil, fmt.Errorf("failed to encode game state: %w", err)
	}
	return data, nil
}

// Unmarshal restores a state previously produced by Marshal.
func Unmarshal(data []byte) (*State, error) {
	var envelope stateEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode game state: %w", err)
	}
	if envelope.Version != serializationVersion {
		return nil, fmt.Errorf("unsupported game state version %d", envelope.Version)
	}
	if envelope.State == nil {
		return nil, fmt.Errorf("game state payload is empty")
	}
	return envelope.State, nil
}

// Checksum computes a deterministic SHA-256 over a canonical representation
// of the state. Map iteration order never leaks in: keyed records are
// emitted sorted by player identifier, while deck, hand and turn order keep
// their meaningful ordering.
func (s *State) Checksum() string {
	sum := sha256.Sum256([]byte(s.canonicalRepresentation()))
	return hex.EncodeToString(sum[:])
}

func (s *State) canonicalRepresentation() string {
	var buf bytes.Buffer

	currentID := ""
	if s.CurrentCard != nil {
		currentID = cardToken(*s.CurrentCard)
	}
	fmt.Fprintf(&buf, "GAME:%s|%d|%d|%t\n", currentID, s.CurrentPlayerIndex, s.MultiplierCount, s.GameEnded)

	buf.WriteString("DECK:")
	deckTokens := make([]string, len(s.Deck))
	for i, card := range s.Deck {
		deckTokens[i] = cardToken(card)
	}
	buf.WriteString(strings.Join(deckTokens, ","))
	buf.WriteString("\n")

	buf.WriteString("DISCARD:")
	discardTokens := make([]string, len(s.DiscardPile))
	for i, card := range s.DiscardPile {
		discardTokens[i] = cardToken(card)
	}
	buf.WriteString(strings.Join(discardTokens, ","))
	buf.WriteString("\n")

	buf.WriteString("TURN_ORDER:")
	buf.WriteString(strings.Join(s.TurnOrder, ","))
	buf.WriteString("\n")

	playerIDs := make([]string, 0, len(s.Players))
	for id := range s.Players {
		playerIDs = append(playerIDs, id)
	}
	sort.Strings(playerIDs)
	for _, id := range playerIDs {
		player := s.Players[id]
		fmt.Fprintf(&buf, "PLAYER:%s|%v|%d\n", id, player.Hand, player.SpentTotal)
		for _, card := range player.WonCards {
			fmt.Fprintf(&buf, "  WON:%s\n", cardToken(card))
		}
	}

	round := s.AuctionRound
	if round == nil {
		buf.WriteString("ROUND:none\n")
		return buf.String()
	}

	fmt.Fprintf(&buf, "ROUND:%s|%d|%d\n", round.Phase, round.CurrentHighest, round.CurrentBidderIndex)
	buf.WriteString("ACTIVE:")
	buf.WriteString(strings.Join(round.ActivePlayers, ","))
	buf.WriteString("\n")

	bidderIDs := make([]string, 0, len(round.Bids))
	for id := range round.Bids {
		bidderIDs = append(bidderIDs, id)
	}
	sort.Strings(bidderIDs)
	for _, id := range bidderIDs {
		bid := round.Bids[id]
		fmt.Fprintf(&buf, "  BID:%s|%v|%d\n", id, bid.Cards, bid.Total)
	}

	return buf.String()
}

func cardToken(card Card) string {
	return fmt.Sprintf("%s/%s/%g/%s", card.ID, card.Kind, card.Value, card.Auction)
}

// ValidateRoundtrip checks that a state survives Marshal/Unmarshal without
// observable change by comparing checksums.
func ValidateRoundtrip(s *State) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("failed to serialize: %w", err)
	}
	restored, err := Unmarshal(data)
	if err != nil {
		return fmt.Errorf("failed to deserialize: %w", err)
	}
	if got, want := restored.Checksum(), s.Checksum(); got != want {
		return fmt.Errorf("checksum mismatch after roundtrip: got %s, want %s", got, want)
	}
	return nil
}
