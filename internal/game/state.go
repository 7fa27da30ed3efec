package game

import (
	"math/rand"
)

// StartingHand is the fixed set of money card denominations dealt to every
// player. Money cards are never created or destroyed after the deal; they
// only move between hand, active bid and the permanently spent total.
var StartingHand = []int{1, 2, 3, 4, 6, 8, 10, 12, 15, 20, 25}

// StartingMoney is the total money dealt to each player, derived from the
// hand so the two can never disagree.
var StartingMoney = handTotal(StartingHand)

func handTotal(cards []int) int {
	total := 0
	for _, c := range cards {
		total += c
	}
	return total
}

// MultiplierLimit ends the game early once this many multiplier cards have
// been revealed.
const MultiplierLimit = 4

// PlayerState is one player's economy: money cards still in hand, cards won
// at auction, and the total permanently forfeited so far.
type PlayerState struct {
	Hand       []int  `json:"hand"`
	WonCards   []Card `json:"won_cards"`
	SpentTotal int    `json:"spent_total"`
}

// PlayerBid is the cumulative bid a player has committed this round.
type PlayerBid struct {
	PlayerID string `json:"player_id"`
	Cards    []int  `json:"cards"`
	Total    int    `json:"total"`
}

// RoundPhase is the lifecycle phase of an auction round.
type RoundPhase string

const (
	PhaseBidding  RoundPhase = "BIDDING"
	PhaseSettling RoundPhase = "SETTLING"
)

// AuctionRound holds one round of bidding over the currently revealed card.
// ActivePlayers strictly shrinks during a forward round; CurrentBidderIndex
// always resolves to a still-active player; CurrentHighest never decreases.
type AuctionRound struct {
	Phase              RoundPhase            `json:"phase"`
	ActivePlayers      []string              `json:"active_players"`
	Bids               map[string]*PlayerBid `json:"bids"`
	CurrentHighest     int                   `json:"current_highest"`
	CurrentBidderIndex int                   `json:"current_bidder_index"`
}

// CurrentBidderID returns the identifier of the player whose turn it is.
func (r *AuctionRound) CurrentBidderID() string {
	if r == nil || len(r.ActivePlayers) == 0 {
		return ""
	}
	return r.ActivePlayers[r.CurrentBidderIndex]
}

// State is the raw, fully-informed game state. It is mutated exclusively by
// PlaceBid and Pass, one validated action at a time, and must never be sent
// to a client directly; use ParticipantView or ObserverView.
type State struct {
	Deck               []Card                  `json:"deck"`
	CurrentCard        *Card                   `json:"current_card"`
	DiscardPile        []Card                  `json:"discard_pile"`
	TurnOrder          []string                `json:"turn_order"`
	CurrentPlayerIndex int                     `json:"current_player_index"`
	Players            map[string]*PlayerState `json:"players"`
	AuctionRound       *AuctionRound           `json:"auction_round"`
	MultiplierCount    int                     `json:"multiplier_count"`
	GameEnded          bool                    `json:"game_ended"`
}

// NewState deals a fresh game for the given players: shuffled deck, fixed
// starting hands, randomized turn order, first card revealed and the first
// auction round started. The random source drives both shuffles; replaying
// the same seed reproduces the game exactly.
func NewState(playerIDs []string, rng *rand.Rand) (*State, error) {
	if len(playerIDs) == 0 {
		return nil, ErrNoPlayers
	}

	players := make(map[string]*PlayerState, len(playerIDs))
	for _, id := range playerIDs {
		players[id] = &PlayerState{
			Hand:     append([]int(nil), StartingHand...),
			WonCards: make([]Card, 0, 4),
		}
	}

	turnOrder := append([]string(nil), playerIDs...)
	shuffleStrings(turnOrder, rng)

	state := &State{
		Deck:        NewDeck(rng),
		DiscardPile: make([]Card, 0, DeckSize),
		TurnOrder:   turnOrder,
		Players:     players,
	}

	state.revealNextCard()
	if state.CurrentCard != nil && state.CurrentCard.Kind == KindMultiplier {
		state.MultiplierCount++
		if state.MultiplierCount >= MultiplierLimit {
			// The revealed card stays visible but no round ever starts.
			state.GameEnded = true
			return state, nil
		}
	}
	if state.CurrentCard != nil {
		state.startRound()
	}

	return state, nil
}

// revealNextCard pops the next card off the deck into CurrentCard. With an
// empty deck it leaves CurrentCard nil and returns nil.
func (s *State) revealNextCard() *Card {
	if len(s.Deck) == 0 {
		return nil
	}
	card := s.Deck[len(s.Deck)-1]
	s.Deck = s.Deck[:len(s.Deck)-1]
	s.CurrentCard = &card
	return s.CurrentCard
}

// startRound opens a bidding round for the current card. Active players are
// the turn order rotated so the current-turn player bids first.
func (s *State) startRound() {
	start := s.CurrentPlayerIndex
	active := make([]string, 0, len(s.TurnOrder))
	active = append(active, s.TurnOrder[start:]...)
	active = append(active, s.TurnOrder[:start]...)

	bids := make(map[string]*PlayerBid, len(active))
	for _, id := range active {
		bids[id] = &PlayerBid{PlayerID: id, Cards: []int{}}
	}

	s.AuctionRound = &AuctionRound{
		Phase:         PhaseBidding,
		ActivePlayers: active,
		Bids:          bids,
	}
}
