package game

import "errors"

// Reason is a caller-visible code for a rejected action. Every validation
// failure is recoverable: the state is left untouched and the caller may
// correct the input and resubmit.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonNotYourTurn    Reason = "NOT_YOUR_TURN"
	ReasonAlreadyPassed  Reason = "ALREADY_PASSED"
	ReasonPlayerNotFound Reason = "PLAYER_NOT_FOUND"
	ReasonBidTooLow      Reason = "BID_TOO_LOW"
	ReasonCardNotInHand  Reason = "CARD_NOT_IN_HAND"
	// ReasonNoAuction covers both "no round in progress" and actions
	// submitted after the game went terminal.
	ReasonNoAuction Reason = "NO_AUCTION"
	// ReasonNoCard indicates a structural ordering bug at the boundary:
	// a round exists but no card is up for auction.
	ReasonNoCard Reason = "NO_CARD"
)

// ErrNoPlayers is returned by NewState when the player set is empty.
// Minimum and maximum player counts beyond that are the caller's policy.
var ErrNoPlayers = errors.New("at least one player required")

// ErrNotFound is returned by Store implementations when no state is
// persisted for a room.
var ErrNotFound = errors.New("game state not found")

// BidOutcome reports the result of a bid attempt.
type BidOutcome struct {
	Success bool   `json:"success"`
	Code    Reason `json:"code,omitempty"`
}

// Settlement records how a finished round resolved.
type Settlement struct {
	WinnerID   string `json:"winner_id"`
	Card       Card   `json:"card"`
	SpentCards []int  `json:"spent_cards"`
	SpentTotal int    `json:"spent_total"`
}

// PassOutcome reports the result of a pass attempt. AuctionEnded and
// Settlement are populated when the pass concluded the round; GameEnded is
// set when progression found no next card or hit the multiplier limit.
type PassOutcome struct {
	Success      bool        `json:"success"`
	Code         Reason      `json:"code,omitempty"`
	AuctionEnded bool        `json:"auction_ended"`
	Settlement   *Settlement `json:"settlement,omitempty"`
	GameEnded    bool        `json:"game_ended"`
}
