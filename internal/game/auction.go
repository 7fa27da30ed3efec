package game

import "sort"

// PlaceBid commits additional money cards from the player's hand to their
// cumulative bid for this round. The new cumulative total must strictly
// exceed the round's current highest. Cards are matched by face value, one
// hand instance consumed per occurrence. On any validation failure the state
// is left untouched.
func (s *State) PlaceBid(playerID string, cards []int) BidOutcome {
	round := s.AuctionRound
	if round == nil || round.Phase != PhaseBidding {
		return BidOutcome{Code: ReasonNoAuction}
	}
	if round.CurrentBidderID() != playerID {
		return BidOutcome{Code: ReasonNotYourTurn}
	}
	// CurrentBidderID always names an active player, so a withdrawn player
	// fails the turn check above and reports NotYourTurn, not AlreadyPassed.
	if !round.isActive(playerID) {
		return BidOutcome{Code: ReasonAlreadyPassed}
	}
	player, ok := s.Players[playerID]
	if !ok {
		return BidOutcome{Code: ReasonPlayerNotFound}
	}

	previous := round.Bids[playerID]
	newCards := append(append([]int(nil), previous.Cards...), cards...)
	newTotal := handTotal(newCards)
	if newTotal <= round.CurrentHighest {
		return BidOutcome{Code: ReasonBidTooLow}
	}

	// Verify against a copy first so a partially matching offer rejects
	// without mutating the hand.
	handCopy := append([]int(nil), player.Hand...)
	for _, c := range cards {
		idx := indexOf(handCopy, c)
		if idx < 0 {
			return BidOutcome{Code: ReasonCardNotInHand}
		}
		handCopy = append(handCopy[:idx], handCopy[idx+1:]...)
	}
	player.Hand = handCopy

	round.Bids[playerID] = &PlayerBid{PlayerID: playerID, Cards: newCards, Total: newTotal}
	round.CurrentHighest = newTotal
	round.CurrentBidderIndex = (round.CurrentBidderIndex + 1) % len(round.ActivePlayers)

	return BidOutcome{Success: true}
}

// Pass withdraws the player from the round. What that means depends on the
// revealed card's auction protocol: in a forward auction it only withdraws,
// in a reverse auction the first pass wins the card for free.
func (s *State) Pass(playerID string) PassOutcome {
	round := s.AuctionRound
	if round == nil || round.Phase != PhaseBidding {
		return PassOutcome{Code: ReasonNoAuction}
	}
	if round.CurrentBidderID() != playerID {
		return PassOutcome{Code: ReasonNotYourTurn}
	}
	playerIndex := indexOfString(round.ActivePlayers, playerID)
	if playerIndex < 0 {
		return PassOutcome{Code: ReasonAlreadyPassed}
	}
	if _, ok := s.Players[playerID]; !ok {
		return PassOutcome{Code: ReasonPlayerNotFound}
	}
	if s.CurrentCard == nil {
		return PassOutcome{Code: ReasonNoCard}
	}

	return strategyFor(*s.CurrentCard).resolvePass(s, playerID, playerIndex)
}

// settlementStrategy is the protocol-specific half of pass handling. The
// shared round lifecycle (validation, progression) stays single-sourced in
// Pass and progress.
type settlementStrategy interface {
	resolvePass(s *State, playerID string, playerIndex int) PassOutcome
}

func strategyFor(card Card) settlementStrategy {
	if card.Auction == AuctionReverse {
		return reverseStrategy{}
	}
	return forwardStrategy{}
}

type forwardStrategy struct{}

// resolvePass withdraws the player: committed cards return to hand (hands
// stay sorted ascending), the player leaves the active list and their bid
// entry is deleted. When exactly one active player remains, the round
// settles immediately.
func (forwardStrategy) resolvePass(s *State, playerID string, playerIndex int) PassOutcome {
	round := s.AuctionRound
	player := s.Players[playerID]

	if bid := round.Bids[playerID]; bid != nil && len(bid.Cards) > 0 {
		player.Hand = append(player.Hand, bid.Cards...)
		sort.Ints(player.Hand)
	}

	round.ActivePlayers = append(round.ActivePlayers[:playerIndex], round.ActivePlayers[playerIndex+1:]...)
	delete(round.Bids, playerID)

	if len(round.ActivePlayers) == 1 {
		return s.settleForward()
	}

	if round.CurrentBidderIndex >= len(round.ActivePlayers) {
		round.CurrentBidderIndex = 0
	}

	return PassOutcome{Success: true}
}

type reverseStrategy struct{}

// resolvePass ends the round on the spot: the passing player takes the card
// for free and recovers their own committed cards, everyone else forfeits
// theirs into spent totals. Turn priority for the next round moves to the
// winner.
func (reverseStrategy) resolvePass(s *State, playerID string, _ int) PassOutcome {
	round := s.AuctionRound
	card := *s.CurrentCard

	winner := s.Players[playerID]
	winner.WonCards = append(winner.WonCards, card)
	if bid := round.Bids[playerID]; bid != nil && len(bid.Cards) > 0 {
		winner.Hand = append(winner.Hand, bid.Cards...)
		sort.Ints(winner.Hand)
	}

	for otherID, bid := range round.Bids {
		if otherID == playerID || len(bid.Cards) == 0 {
			continue
		}
		s.Players[otherID].SpentTotal += bid.Total
	}

	result := &Settlement{
		WinnerID:   playerID,
		Card:       card,
		SpentCards: []int{},
	}

	return s.progress(playerID, result)
}

// settleForward resolves a forward round down to its last active player: the
// winner's committed bid is permanently forfeited and the card is theirs.
func (s *State) settleForward() PassOutcome {
	round := s.AuctionRound
	if round == nil || len(round.ActivePlayers) != 1 {
		return PassOutcome{Code: ReasonNoAuction}
	}
	winnerID := round.ActivePlayers[0]
	winner, ok := s.Players[winnerID]
	if !ok || s.CurrentCard == nil {
		return PassOutcome{Code: ReasonNoCard}
	}
	card := *s.CurrentCard

	result := &Settlement{
		WinnerID:   winnerID,
		Card:       card,
		SpentCards: []int{},
	}
	if bid := round.Bids[winnerID]; bid != nil {
		result.SpentCards = append(result.SpentCards, bid.Cards...)
		result.SpentTotal = bid.Total
		winner.SpentTotal += bid.Total
	}
	winner.WonCards = append(winner.WonCards, card)

	return s.progress(winnerID, result)
}

// progress is the shared post-settlement path for both protocols: the winner
// takes turn priority, the next card is revealed and either a new round
// starts or the game ends.
func (s *State) progress(winnerID string, result *Settlement) PassOutcome {
	if idx := indexOfString(s.TurnOrder, winnerID); idx >= 0 {
		s.CurrentPlayerIndex = idx
	}

	next := s.revealNextCard()
	if next == nil {
		// Deck exhausted.
		s.GameEnded = true
		s.AuctionRound = nil
		s.CurrentCard = nil
		return PassOutcome{Success: true, AuctionEnded: true, Settlement: result, GameEnded: true}
	}

	if next.Kind == KindMultiplier {
		s.MultiplierCount++
		if s.MultiplierCount >= MultiplierLimit {
			// The final multiplier stays visible; no new round starts.
			s.GameEnded = true
			s.AuctionRound = nil
			return PassOutcome{Success: true, AuctionEnded: true, Settlement: result, GameEnded: true}
		}
	}

	s.startRound()
	return PassOutcome{Success: true, AuctionEnded: true, Settlement: result}
}

func (r *AuctionRound) isActive(playerID string) bool {
	return indexOfString(r.ActivePlayers, playerID) >= 0
}

func indexOf(values []int, v int) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}

func indexOfString(values []string, v string) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}
