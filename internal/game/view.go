package game

// The two projections below are the only shapes ever sent to non-owning
// callers. Both are pure transforms of one canonical State: they copy what
// they expose and never leak another player's hand contents or un-played
// bid card faces.

// PublicPlayerState is a player's economy as everyone else sees it.
type PublicPlayerState struct {
	HandCount  int    `json:"hand_count"`
	WonCards   []Card `json:"won_cards"`
	SpentTotal int    `json:"spent_total"`
}

// PublicBid is a bid with the card faces hidden.
type PublicBid struct {
	PlayerID  string `json:"player_id"`
	CardCount int    `json:"card_count"`
	Total     int    `json:"total"`
}

// ParticipantRoundView is the in-progress round as one participant sees it.
type ParticipantRoundView struct {
	Phase           RoundPhase           `json:"phase"`
	ActivePlayers   []string             `json:"active_players"`
	MyBid           *PlayerBid           `json:"my_bid,omitempty"`
	OtherBids       map[string]PublicBid `json:"other_bids"`
	CurrentHighest  int                  `json:"current_highest"`
	CurrentBidderID string               `json:"current_bidder_id"`
	IsMyTurn        bool                 `json:"is_my_turn"`
}

// ParticipantView is the game as seen by one seated player: their own full
// economy and bid, everyone else redacted to counts and totals.
type ParticipantView struct {
	DeckCount          int                          `json:"deck_count"`
	CurrentCard        *Card                        `json:"current_card,omitempty"`
	DiscardPile        []Card                       `json:"discard_pile"`
	TurnOrder          []string                     `json:"turn_order"`
	CurrentPlayerIndex int                          `json:"current_player_index"`
	My                 *PlayerState                 `json:"my_state,omitempty"`
	Others             map[string]PublicPlayerState `json:"other_players"`
	Round              *ParticipantRoundView        `json:"auction_round,omitempty"`
	GameEnded          bool                         `json:"game_ended"`
}

// ObserverRoundView is the round with every bid redacted.
type ObserverRoundView struct {
	Phase           RoundPhase           `json:"phase"`
	ActivePlayers   []string             `json:"active_players"`
	Bids            map[string]PublicBid `json:"bids"`
	CurrentHighest  int                  `json:"current_highest"`
	CurrentBidderID string               `json:"current_bidder_id"`
}

// ObserverView is the game with no distinguished self: every player reduced
// to hand count, won cards and spent total.
type ObserverView struct {
	DeckCount          int                          `json:"deck_count"`
	CurrentCard        *Card                        `json:"current_card,omitempty"`
	DiscardPile        []Card                       `json:"discard_pile"`
	TurnOrder          []string                     `json:"turn_order"`
	CurrentPlayerIndex int                          `json:"current_player_index"`
	Players            map[string]PublicPlayerState `json:"players"`
	Round              *ObserverRoundView           `json:"auction_round,omitempty"`
	GameEnded          bool                         `json:"game_ended"`
}

// BuildParticipantView projects the state for one seated player.
func (s *State) BuildParticipantView(viewerID string) ParticipantView {
	view := ParticipantView{
		DeckCount:          len(s.Deck),
		CurrentCard:        copyCard(s.CurrentCard),
		DiscardPile:        append([]Card(nil), s.DiscardPile...),
		TurnOrder:          append([]string(nil), s.TurnOrder...),
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		Others:             make(map[string]PublicPlayerState, len(s.Players)),
		GameEnded:          s.GameEnded,
	}

	for playerID, player := range s.Players {
		if playerID == viewerID {
			view.My = &PlayerState{
				Hand:       append([]int(nil), player.Hand...),
				WonCards:   append([]Card(nil), player.WonCards...),
				SpentTotal: player.SpentTotal,
			}
			continue
		}
		view.Others[playerID] = redactPlayer(player)
	}

	round := s.AuctionRound
	if round == nil {
		return view
	}

	roundView := &ParticipantRoundView{
		Phase:           round.Phase,
		ActivePlayers:   append([]string(nil), round.ActivePlayers...),
		OtherBids:       make(map[string]PublicBid, len(round.Bids)),
		CurrentHighest:  round.CurrentHighest,
		CurrentBidderID: round.CurrentBidderID(),
	}
	roundView.IsMyTurn = roundView.CurrentBidderID == viewerID

	for playerID, bid := range round.Bids {
		if playerID == viewerID {
			roundView.MyBid = &PlayerBid{
				PlayerID: bid.PlayerID,
				Cards:    append([]int(nil), bid.Cards...),
				Total:    bid.Total,
			}
			continue
		}
		roundView.OtherBids[playerID] = redactBid(bid)
	}

	view.Round = roundView
	return view
}

// BuildObserverView projects the state for a caller with no seat.
func (s *State) BuildObserverView() ObserverView {
	view := ObserverView{
		DeckCount:          len(s.Deck),
		CurrentCard:        copyCard(s.CurrentCard),
		DiscardPile:        append([]Card(nil), s.DiscardPile...),
		TurnOrder:          append([]string(nil), s.TurnOrder...),
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		Players:            make(map[string]PublicPlayerState, len(s.Players)),
		GameEnded:          s.GameEnded,
	}

	for playerID, player := range s.Players {
		view.Players[playerID] = redactPlayer(player)
	}

	round := s.AuctionRound
	if round == nil {
		return view
	}

	roundView := &ObserverRoundView{
		Phase:           round.Phase,
		ActivePlayers:   append([]string(nil), round.ActivePlayers...),
		Bids:            make(map[string]PublicBid, len(round.Bids)),
		CurrentHighest:  round.CurrentHighest,
		CurrentBidderID: round.CurrentBidderID(),
	}
	for playerID, bid := range round.Bids {
		roundView.Bids[playerID] = redactBid(bid)
	}

	view.Round = roundView
	return view
}

func redactPlayer(player *PlayerState) PublicPlayerState {
	return PublicPlayerState{
		HandCount:  len(player.Hand),
		WonCards:   append([]Card(nil), player.WonCards...),
		SpentTotal: player.SpentTotal,
	}
}

func redactBid(bid *PlayerBid) PublicBid {
	return PublicBid{
		PlayerID:  bid.PlayerID,
		CardCount: len(bid.Cards),
		Total:     bid.Total,
	}
}

func copyCard(card *Card) *Card {
	if card == nil {
		return nil
	}
	c := *card
	return &c
}
