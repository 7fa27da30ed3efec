package game

import (
	"math/rand"

	"github.com/google/uuid"
)

// CardKind classifies an auction card for scoring purposes.
type CardKind string

const (
	KindLuxury     CardKind = "LUXURY"
	KindZero       CardKind = "ZERO"
	KindPenalty    CardKind = "PENALTY"
	KindMultiplier CardKind = "MULTIPLIER"
)

// AuctionType selects the protocol used to auction a card.
type AuctionType string

const (
	// AuctionForward is an ascending auction: the last player remaining
	// wins the card and pays their committed total.
	AuctionForward AuctionType = "FORWARD"
	// AuctionReverse inverts the incentive: the first player to pass wins
	// the card for free and everyone else forfeits their committed cards.
	AuctionReverse AuctionType = "REVERSE"
)

// Card is an immutable auction card. Identity is unique within a game.
type Card struct {
	ID      string      `json:"id"`
	Kind    CardKind    `json:"kind"`
	Value   float64     `json:"value"`
	Auction AuctionType `json:"auction"`
}

type cardSpec struct {
	kind    CardKind
	value   float64
	auction AuctionType
}

// deckCatalog is the fixed 16-card population: ten luxury cards valued 1-10,
// one zero-value card, one penalty card, three x2 multipliers and one x0.5
// multiplier. The negative and halving cards go to reverse auctions.
var deckCatalog = [...]cardSpec{
	{KindLuxury, 1, AuctionForward},
	{KindLuxury, 2, AuctionForward},
	{KindLuxury, 3, AuctionForward},
	{KindLuxury, 4, AuctionForward},
	{KindLuxury, 5, AuctionForward},
	{KindLuxury, 6, AuctionForward},
	{KindLuxury, 7, AuctionForward},
	{KindLuxury, 8, AuctionForward},
	{KindLuxury, 9, AuctionForward},
	{KindLuxury, 10, AuctionForward},
	{KindZero, 0, AuctionReverse},
	{KindPenalty, -5, AuctionReverse},
	{KindMultiplier, 2, AuctionForward},
	{KindMultiplier, 2, AuctionForward},
	{KindMultiplier, 2, AuctionForward},
	{KindMultiplier, 0.5, AuctionReverse},
}

// DeckSize is the number of cards in a freshly built deck.
const DeckSize = len(deckCatalog)

// NewDeck builds the full card population and returns it uniformly shuffled.
// Both the card identities and the shuffle are drawn from the injected
// source, so the same seed always produces the same deck, IDs included.
func NewDeck(rng *rand.Rand) []Card {
	deck := make([]Card, 0, DeckSize)
	for _, spec := range deckCatalog {
		deck = append(deck, Card{
			ID:      uuid.Must(uuid.NewRandomFromReader(rng)).String(),
			Kind:    spec.kind,
			Value:   spec.value,
			Auction: spec.auction,
		})
	}
	shuffleCards(deck, rng)
	return deck
}

// shuffleCards performs an in-place Fisher-Yates shuffle. Given an unbiased
// source every permutation is equally likely.
func shuffleCards(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// shuffleStrings shuffles player identifiers with the same primitive used
// for the deck, so turn-order randomization shares its fairness guarantee.
func shuffleStrings(ids []string, rng *rand.Rand) {
	for i := len(ids) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}
