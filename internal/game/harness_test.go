package game

import (
	"testing"

	"github.com/google/uuid"
)

// Helpers for building games with a known deck. revealNextCard pops from the
// end of the slice, so decks are listed here in reveal order and reversed
// before installation.

func luxuryCard(value float64) Card {
	return Card{ID: uuid.New().String(), Kind: KindLuxury, Value: value, Auction: AuctionForward}
}

func penaltyCard() Card {
	return Card{ID: uuid.New().String(), Kind: KindPenalty, Value: -5, Auction: AuctionReverse}
}

func zeroCard() Card {
	return Card{ID: uuid.New().String(), Kind: KindZero, Value: 0, Auction: AuctionReverse}
}

func multiplierCard(value float64) Card {
	auction := AuctionForward
	if value < 1 {
		auction = AuctionReverse
	}
	return Card{ID: uuid.New().String(), Kind: KindMultiplier, Value: value, Auction: auction}
}

// newScriptedState builds a game over a fixed deck with a fixed turn order.
// cardsInRevealOrder[0] becomes the first revealed card.
func newScriptedState(playerIDs []string, cardsInRevealOrder ...Card) *State {
	players := make(map[string]*PlayerState, len(playerIDs))
	for _, id := range playerIDs {
		players[id] = &PlayerState{
			Hand:     append([]int(nil), StartingHand...),
			WonCards: []Card{},
		}
	}

	deck := make([]Card, 0, len(cardsInRevealOrder))
	for i := len(cardsInRevealOrder) - 1; i >= 0; i-- {
		deck = append(deck, cardsInRevealOrder[i])
	}

	s := &State{
		Deck:        deck,
		DiscardPile: []Card{},
		TurnOrder:   append([]string(nil), playerIDs...),
		Players:     players,
	}
	s.revealNextCard()
	s.startRound()
	return s
}

// playerMoney sums a player's visible money: hand plus the cards committed to
// an open bid plus the permanently spent total. The game never creates or
// destroys money, so this stays at StartingMoney for every player.
func playerMoney(s *State, playerID string) int {
	total := s.Players[playerID].SpentTotal
	for _, c := range s.Players[playerID].Hand {
		total += c
	}
	if s.AuctionRound != nil {
		if bid, ok := s.AuctionRound.Bids[playerID]; ok {
			total += bid.Total
		}
	}
	return total
}

func assertMoneyConserved(t *testing.T, s *State) {
	t.Helper()
	for id := range s.Players {
		if got := playerMoney(s, id); got != StartingMoney {
			t.Errorf("player %s money not conserved: got %d, want %d", id, got, StartingMoney)
		}
	}
}
