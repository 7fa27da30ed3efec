package game

import "sort"

// FinalScore is one player's end-of-game accounting.
type FinalScore struct {
	PlayerID       string  `json:"player_id"`
	PlayerName     string  `json:"player_name"`
	LuxuryTotal    int     `json:"luxury_total"`
	Multiplier     float64 `json:"multiplier"`
	Penalty        int     `json:"penalty"`
	FinalScore     float64 `json:"final_score"`
	RemainingMoney int     `json:"remaining_money"`
	Eliminated     bool    `json:"eliminated"`
	WonCards       []Card  `json:"won_cards"`
}

// GameEndResult partitions players into the active ranking and the
// eliminated ranking, each sorted by final score descending. The two lists
// are never merged.
type GameEndResult struct {
	Rankings   []FinalScore `json:"rankings"`
	Eliminated []FinalScore `json:"eliminated"`
}

// FinalScores computes each player's final value once the game is terminal.
// Final score = luxury total x multiplier product + penalty sum. Every
// player whose remaining money equals the table minimum is eliminated;
// ties at the minimum all eliminate, there is no tie-break.
func (s *State) FinalScores(playerNames map[string]string) GameEndResult {
	scores := make([]FinalScore, 0, len(s.TurnOrder))

	for _, playerID := range s.TurnOrder {
		player, ok := s.Players[playerID]
		if !ok {
			continue
		}

		luxuryTotal := 0
		multiplier := 1.0
		penalty := 0
		for _, card := range player.WonCards {
			switch card.Kind {
			case KindLuxury:
				luxuryTotal += int(card.Value)
			case KindMultiplier:
				multiplier *= card.Value
			case KindPenalty:
				penalty += int(card.Value)
			}
		}

		name := playerNames[playerID]
		if name == "" {
			name = playerID
		}

		scores = append(scores, FinalScore{
			PlayerID:       playerID,
			PlayerName:     name,
			LuxuryTotal:    luxuryTotal,
			Multiplier:     multiplier,
			Penalty:        penalty,
			FinalScore:     float64(luxuryTotal)*multiplier + float64(penalty),
			RemainingMoney: StartingMoney - player.SpentTotal,
			WonCards:       append([]Card(nil), player.WonCards...),
		})
	}

	if len(scores) == 0 {
		return GameEndResult{}
	}

	minMoney := scores[0].RemainingMoney
	for _, sc := range scores[1:] {
		if sc.RemainingMoney < minMoney {
			minMoney = sc.RemainingMoney
		}
	}

	var result GameEndResult
	for i := range scores {
		if scores[i].RemainingMoney == minMoney {
			scores[i].Eliminated = true
			result.Eliminated = append(result.Eliminated, scores[i])
		} else {
			result.Rankings = append(result.Rankings, scores[i])
		}
	}

	sort.SliceStable(result.Rankings, func(i, j int) bool {
		return result.Rankings[i].FinalScore > result.Rankings[j].FinalScore
	})
	sort.SliceStable(result.Eliminated, func(i, j int) bool {
		return result.Eliminated[i].FinalScore > result.Eliminated[j].FinalScore
	})

	return result
}
