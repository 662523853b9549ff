package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/lucabarbieri/bestia-backend/internal/aggregate"
	"github.com/lucabarbieri/bestia-backend/pkg/game"
)

// tolerance absorbs residue left by non-terminating payout divisions.
var tolerance = decimal.New(1, -9)

// Payment is one point-to-point transfer of the settlement plan.
type Payment struct {
	FromID   string          `json:"fromId"`
	FromName string          `json:"fromName"`
	ToID     string          `json:"toId"`
	ToName   string          `json:"toName"`
	Amount   decimal.Decimal `json:"amount"`
}

// Calculate returns a small set of pairwise payments that zeroes every
// player balance: repeatedly match the largest debtor against the largest
// creditor and transfer min(|debt|, credit).
//
// Ties on amount break by roster position, which makes the plan
// deterministic for a given session.
func Calculate(s *game.Session) []Payment {
	balances := aggregate.PlayerBalances(s)

	residual := make([]decimal.Decimal, len(s.Players))
	for i, player := range s.Players {
		residual[i] = balances[player.ID]
	}

	var payments []Payment
	for {
		debtor := pickExtreme(residual, func(amount decimal.Decimal) decimal.Decimal {
			return amount.Neg()
		})
		creditor := pickExtreme(residual, func(amount decimal.Decimal) decimal.Decimal {
			return amount
		})
		if debtor < 0 || creditor < 0 {
			break
		}

		transfer := decimal.Min(residual[debtor].Neg(), residual[creditor])
		residual[debtor] = residual[debtor].Add(transfer)
		residual[creditor] = residual[creditor].Sub(transfer)

		payments = append(payments, Payment{
			FromID:   s.Players[debtor].ID,
			FromName: s.Players[debtor].Name,
			ToID:     s.Players[creditor].ID,
			ToName:   s.Players[creditor].Name,
			Amount:   transfer,
		})
	}
	return payments
}

// pickExtreme returns the roster index with the largest magnitude according
// to the provided view, ignoring values within tolerance of zero. Ties keep
// the earliest roster position.
func pickExtreme(residual []decimal.Decimal, view func(decimal.Decimal) decimal.Decimal) int {
	best := -1
	for i, amount := range residual {
		value := view(amount)
		if value.LessThanOrEqual(tolerance) {
			continue
		}
		if best < 0 || value.GreaterThan(view(residual[best])) {
			best = i
		}
	}
	return best
}
