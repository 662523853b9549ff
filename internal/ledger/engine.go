package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/lucabarbieri/bestia-backend/internal/aggregate"
	"github.com/lucabarbieri/bestia-backend/pkg/enums"
	pkgerrors "github.com/lucabarbieri/bestia-backend/pkg/errors"
	"github.com/lucabarbieri/bestia-backend/pkg/game"
)

// The engine is the pure half of the ledger: each Apply function clones the
// session, appends (or edits) one event and returns the new value. No I/O
// happens here; the service layer persists the result.

// ApplyDealerSelection marks the chosen player as dealer and charges them
// the piatto ante.
func ApplyDealerSelection(s *game.Session, dealerPlayerID string) (*game.Session, error) {
	index := s.PlayerIndex(dealerPlayerID)
	if index < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dealer player not found")
	}

	next := s.Clone()
	next.CurrentDealerIndex = index
	next.Events = append(next.Events, game.NewEvent(
		enums.EventTypeDealerPay,
		[]game.Transaction{{PlayerID: dealerPlayerID, Amount: next.Piatto.Neg()}},
		&game.EventMetadata{DealerPlayerID: dealerPlayerID},
	))
	return next, nil
}

// ComputeRoundPayouts runs the payout math for a round without appending an
// event, so callers can preview before committing.
//
// Winners (prese > 0) share the pot proportionally to their tricks. Every
// bestia player is debited the full current pot independently; with several
// bestia players the pot inflates on purpose, that is the game rule, not a
// bug. A round with no winners is rejected.
func ComputeRoundPayouts(s *game.Session, prese game.Prese, bestiaPlayerIDs []string) (map[string]decimal.Decimal, error) {
	for playerID := range prese {
		if s.PlayerIndex(playerID) < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "prese player not found")
		}
	}
	for _, playerID := range bestiaPlayerIDs {
		if s.PlayerIndex(playerID) < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bestia player not found")
		}
	}

	totalPrese := prese.Total()
	if totalPrese <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "round has no winners")
	}

	potAtStart := aggregate.CurrentPot(s)
	total := decimal.NewFromInt(int64(totalPrese))

	amounts := make(map[string]decimal.Decimal, len(prese)+len(bestiaPlayerIDs))
	for playerID, count := range prese {
		if count <= 0 {
			continue
		}
		share := potAtStart.Mul(decimal.NewFromInt(int64(count))).Div(total)
		amounts[playerID] = amounts[playerID].Add(share)
	}
	for _, playerID := range bestiaPlayerIDs {
		amounts[playerID] = amounts[playerID].Sub(potAtStart)
	}
	return amounts, nil
}

// ApplyRound computes the payouts from the pot as it stands before the round
// and appends the round_end event. Zero amounts are omitted from the
// transaction list. The dealer rotates to the next roster position.
func ApplyRound(s *game.Session, prese game.Prese, bestiaPlayerIDs []string, description string) (*game.Session, error) {
	amounts, err := ComputeRoundPayouts(s, prese, bestiaPlayerIDs)
	if err != nil {
		return nil, err
	}
	return appendRound(s, prese, bestiaPlayerIDs, description, amounts)
}

// ApplyRoundWithAmounts records a round whose amounts were reviewed and
// adjusted by the caller, bypassing the automatic payout computation.
func ApplyRoundWithAmounts(s *game.Session, prese game.Prese, bestiaPlayerIDs []string, description string, amounts map[string]decimal.Decimal) (*game.Session, error) {
	for playerID := range amounts {
		if s.PlayerIndex(playerID) < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payout player not found")
		}
	}
	return appendRound(s, prese, bestiaPlayerIDs, description, amounts)
}

func appendRound(s *game.Session, prese game.Prese, bestiaPlayerIDs []string, description string, amounts map[string]decimal.Decimal) (*game.Session, error) {
	dealerID := aggregate.CurrentDealerID(s)

	// roster order keeps the transaction list deterministic
	transactions := make([]game.Transaction, 0, len(amounts))
	for _, player := range s.Players {
		amount, ok := amounts[player.ID]
		if !ok || amount.IsZero() {
			continue
		}
		transactions = append(transactions, game.Transaction{PlayerID: player.ID, Amount: amount})
	}

	bestia := make([]string, len(bestiaPlayerIDs))
	copy(bestia, bestiaPlayerIDs)

	next := s.Clone()
	next.Events = append(next.Events, game.NewEvent(
		enums.EventTypeRoundEnd,
		transactions,
		&game.EventMetadata{
			DealerPlayerID: dealerID,
			Prese:          prese.Clone(),
			BestiaPlayers:  bestia,
			Description:    description,
		},
	))
	rotateDealer(next, dealerID)
	return next, nil
}

// ApplyGiroChiuso charges every roster player the piatto ante, active or
// not, and rotates the dealer. Zero-amount entries stay explicit.
func ApplyGiroChiuso(s *game.Session) (*game.Session, error) {
	if len(s.Players) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session has no players")
	}

	dealerID := aggregate.CurrentDealerID(s)
	transactions := make([]game.Transaction, 0, len(s.Players))
	for _, player := range s.Players {
		transactions = append(transactions, game.Transaction{PlayerID: player.ID, Amount: s.Piatto.Neg()})
	}

	next := s.Clone()
	next.Events = append(next.Events, game.NewEvent(
		enums.EventTypeGiroChiuso,
		transactions,
		&game.EventMetadata{DealerPlayerID: dealerID},
	))
	rotateDealer(next, dealerID)
	return next, nil
}

// ApplyManualEntry appends a free-form correction. Every supplied amount
// becomes a transaction, zeros included, and the amounts need not sum to
// zero. The dealer does not rotate.
func ApplyManualEntry(s *game.Session, amounts map[string]decimal.Decimal, description string) (*game.Session, error) {
	transactions, err := manualTransactions(s, amounts)
	if err != nil {
		return nil, err
	}

	next := s.Clone()
	next.Events = append(next.Events, game.NewEvent(
		enums.EventTypeManualEntry,
		transactions,
		&game.EventMetadata{Description: description},
	))
	return next, nil
}

// ApplyManualEntryUpdate replaces the transactions and description of an
// existing manual entry in place.
func ApplyManualEntryUpdate(s *game.Session, eventID string, amounts map[string]decimal.Decimal, description string) (*game.Session, error) {
	index := s.EventIndex(eventID)
	if index < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
	}
	if s.Events[index].Type != enums.EventTypeManualEntry {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only manual entries can be edited")
	}

	transactions, err := manualTransactions(s, amounts)
	if err != nil {
		return nil, err
	}

	next := s.Clone()
	next.Events[index].Transactions = transactions
	next.Events[index].Metadata = &game.EventMetadata{Description: description}
	return next, nil
}

// ApplyEventDeletion removes any event from the log. Dealer identity is
// derived from the remaining dealer_pay events, so the stored index is
// realigned with that derivation.
func ApplyEventDeletion(s *game.Session, eventID string) (*game.Session, error) {
	index := s.EventIndex(eventID)
	if index < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
	}

	next := s.Clone()
	next.Events = append(next.Events[:index], next.Events[index+1:]...)
	if dealerIndex := next.PlayerIndex(aggregate.CurrentDealerID(next)); dealerIndex >= 0 {
		next.CurrentDealerIndex = dealerIndex
	}
	return next, nil
}

func manualTransactions(s *game.Session, amounts map[string]decimal.Decimal) ([]game.Transaction, error) {
	for playerID := range amounts {
		if s.PlayerIndex(playerID) < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "player not found")
		}
	}
	transactions := make([]game.Transaction, 0, len(amounts))
	for _, player := range s.Players {
		amount, ok := amounts[player.ID]
		if !ok {
			continue
		}
		transactions = append(transactions, game.Transaction{PlayerID: player.ID, Amount: amount})
	}
	return transactions, nil
}

func rotateDealer(s *game.Session, dealerID string) {
	if len(s.Players) == 0 {
		return
	}
	index := s.PlayerIndex(dealerID)
	if index < 0 {
		index = s.CurrentDealerIndex
	}
	s.CurrentDealerIndex = (index + 1) % len(s.Players)
}
