package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/lucabarbieri/bestia-backend/pkg/enums"
	"github.com/lucabarbieri/bestia-backend/pkg/game"
)

// The aggregation engine derives every view by replaying the event log in
// chronological order. Nothing here mutates the session or caches results;
// the log is the single source of truth.

// CurrentPot returns the money sitting in the kitty: the negated sum of all
// transaction amounts. Ante payments are negative, payouts positive, so the
// total flips sign to become the pot.
func CurrentPot(s *game.Session) decimal.Decimal {
	total := decimal.Zero
	for _, event := range s.Events {
		for _, tx := range event.Transactions {
			total = total.Add(tx.Amount)
		}
	}
	return total.Neg()
}

// PlayerBalances folds every transaction into a per-player balance. Every
// roster player is present in the result, including those with no activity.
func PlayerBalances(s *game.Session) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(s.Players))
	for _, player := range s.Players {
		balances[player.ID] = decimal.Zero
	}
	for _, event := range s.Events {
		for _, tx := range event.Transactions {
			balances[tx.PlayerID] = balances[tx.PlayerID].Add(tx.Amount)
		}
	}
	return balances
}

// CurrentDealerID derives the dealer from the latest dealer_pay event in the
// log, falling back to the first roster player when none exists. This
// derivation is authoritative over the stored dealer index, so deleting a
// dealer_pay event changes the answer consistently.
func CurrentDealerID(s *game.Session) string {
	for i := len(s.Events) - 1; i >= 0; i-- {
		event := s.Events[i]
		if event.Type == enums.EventTypeDealerPay && event.Metadata != nil && event.Metadata.DealerPlayerID != "" {
			return event.Metadata.DealerPlayerID
		}
	}
	if len(s.Players) == 0 {
		return ""
	}
	return s.Players[0].ID
}

// NextDealerID returns the player after the current dealer in roster order.
// Rotation is purely positional and does not skip inactive players.
func NextDealerID(s *game.Session) string {
	if len(s.Players) == 0 {
		return ""
	}
	current := CurrentDealerID(s)
	index := s.PlayerIndex(current)
	if index < 0 {
		index = 0
	}
	return s.Players[(index+1)%len(s.Players)].ID
}

// Wins counts, per player, the round_end events where they came out positive.
func Wins(s *game.Session) map[string]int {
	return countRounds(s, func(amount decimal.Decimal) bool {
		return amount.IsPositive()
	})
}

// Losses counts, per player, the round_end events where they came out negative.
func Losses(s *game.Session) map[string]int {
	return countRounds(s, func(amount decimal.Decimal) bool {
		return amount.IsNegative()
	})
}

// RoundsPlayed counts, per player, the round_end events they transacted in.
func RoundsPlayed(s *game.Session) map[string]int {
	return countRounds(s, func(decimal.Decimal) bool {
		return true
	})
}

func countRounds(s *game.Session, match func(decimal.Decimal) bool) map[string]int {
	counts := make(map[string]int, len(s.Players))
	for _, player := range s.Players {
		counts[player.ID] = 0
	}
	for _, event := range s.Events {
		if event.Type != enums.EventTypeRoundEnd {
			continue
		}
		for _, tx := range event.Transactions {
			if match(tx.Amount) {
				counts[tx.PlayerID]++
			}
		}
	}
	return counts
}

// BestiaCounts counts, per player, how often they went bestia.
func BestiaCounts(s *game.Session) map[string]int {
	counts := make(map[string]int, len(s.Players))
	for _, player := range s.Players {
		counts[player.ID] = 0
	}
	for _, event := range s.Events {
		if event.Type != enums.EventTypeRoundEnd || event.Metadata == nil {
			continue
		}
		for _, playerID := range event.Metadata.BestiaPlayers {
			counts[playerID]++
		}
	}
	return counts
}

// BalancePoint is a snapshot of every balance after one event was applied.
type BalancePoint struct {
	EventID   string                     `json:"eventId"`
	Timestamp int64                      `json:"timestamp"`
	Balances  map[string]decimal.Decimal `json:"balances"`
}

// BalanceProgression replays the log and captures the running balances after
// each event, in order. Backs balance-over-time charts.
func BalanceProgression(s *game.Session) []BalancePoint {
	running := make(map[string]decimal.Decimal, len(s.Players))
	for _, player := range s.Players {
		running[player.ID] = decimal.Zero
	}

	points := make([]BalancePoint, 0, len(s.Events))
	for _, event := range s.Events {
		for _, tx := range event.Transactions {
			running[tx.PlayerID] = running[tx.PlayerID].Add(tx.Amount)
		}
		snapshot := make(map[string]decimal.Decimal, len(running))
		for id, balance := range running {
			snapshot[id] = balance
		}
		points = append(points, BalancePoint{
			EventID:   event.ID,
			Timestamp: event.Timestamp,
			Balances:  snapshot,
		})
	}
	return points
}
