package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucabarbieri/bestia-backend/internal/aggregate"
	"github.com/lucabarbieri/bestia-backend/pkg/enums"
	pkgerrors "github.com/lucabarbieri/bestia-backend/pkg/errors"
	"github.com/lucabarbieri/bestia-backend/pkg/game"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func newTableSession(t *testing.T, piatto string, names ...string) *game.Session {
	t.Helper()
	players := make([]game.Player, 0, len(names))
	for _, name := range names {
		players = append(players, game.NewPlayer(name))
	}
	return &game.Session{
		ID:      uuid.New(),
		Piatto:  dec(piatto),
		Players: players,
	}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected coded error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestApplyDealerSelection(t *testing.T) {
	s := newTableSession(t, "0.30", "P1", "P2", "P3", "P4")

	next, err := ApplyDealerSelection(s, s.Players[0].ID)
	require.NoError(t, err)

	require.Len(t, next.Events, 1)
	event := next.Events[0]
	assert.Equal(t, enums.EventTypeDealerPay, event.Type)
	require.Len(t, event.Transactions, 1)
	assert.Equal(t, s.Players[0].ID, event.Transactions[0].PlayerID)
	assert.True(t, event.Transactions[0].Amount.Equal(dec("-0.30")))
	require.NotNil(t, event.Metadata)
	assert.Equal(t, s.Players[0].ID, event.Metadata.DealerPlayerID)
	assert.Equal(t, 0, next.CurrentDealerIndex)

	assert.True(t, aggregate.CurrentPot(next).Equal(dec("0.30")))
	assert.True(t, aggregate.PlayerBalances(next)[s.Players[0].ID].Equal(dec("-0.30")))

	// input untouched
	assert.Empty(t, s.Events)
}

func TestApplyDealerSelectionUnknownPlayer(t *testing.T) {
	s := newTableSession(t, "0.30", "P1", "P2")

	next, err := ApplyDealerSelection(s, "missing")
	requireCode(t, err, pkgerrors.CodeNotFound)
	assert.Nil(t, next)
	assert.Empty(t, s.Events)
}

func TestApplyRoundSplitsPotByPrese(t *testing.T) {
	s := newTableSession(t, "0.30", "P1", "P2", "P3", "P4")
	s, err := ApplyDealerSelection(s, s.Players[0].ID)
	require.NoError(t, err)

	next, err := ApplyRound(s, game.Prese{
		s.Players[0].ID: 0,
		s.Players[1].ID: 2,
		s.Players[2].ID: 1,
		s.Players[3].ID: 0,
	}, nil, "")
	require.NoError(t, err)

	balances := aggregate.PlayerBalances(next)
	assert.True(t, balances[s.Players[1].ID].Equal(dec("0.20")))
	assert.True(t, balances[s.Players[2].ID].Equal(dec("0.10")))
	assert.True(t, aggregate.CurrentPot(next).IsZero())

	round := next.Events[1]
	assert.Equal(t, enums.EventTypeRoundEnd, round.Type)
	// zero amounts are omitted
	assert.Len(t, round.Transactions, 2)
	require.NotNil(t, round.Metadata)
	assert.Equal(t, s.Players[0].ID, round.Metadata.DealerPlayerID)
	assert.Equal(t, 2, round.Metadata.Prese[s.Players[1].ID])

	// dealer rotated one position past P1
	assert.Equal(t, 1, next.CurrentDealerIndex)
}

func TestApplyRoundBestiaPaysFullPot(t *testing.T) {
	s := newTableSession(t, "0.30", "P1", "P2", "P3", "P4")
	s, err := ApplyDealerSelection(s, s.Players[0].ID)
	require.NoError(t, err)

	next, err := ApplyRound(s, game.Prese{s.Players[1].ID: 3}, []string{s.Players[2].ID}, "")
	require.NoError(t, err)

	balances := aggregate.PlayerBalances(next)
	assert.True(t, balances[s.Players[1].ID].Equal(dec("0.30")))
	assert.True(t, balances[s.Players[2].ID].Equal(dec("-0.30")))
	// the bestia debit re-inflates the pot
	assert.True(t, aggregate.CurrentPot(next).Equal(dec("0.30")))
}

func TestApplyRoundMultipleBestiaEachPayFullPot(t *testing.T) {
	s := newTableSession(t, "0.30", "P1", "P2", "P3", "P4")
	s, err := ApplyDealerSelection(s, s.Players[0].ID)
	require.NoError(t, err)

	next, err := ApplyRound(s, game.Prese{s.Players[1].ID: 3},
		[]string{s.Players[2].ID, s.Players[3].ID}, "")
	require.NoError(t, err)

	balances := aggregate.PlayerBalances(next)
	assert.True(t, balances[s.Players[2].ID].Equal(dec("-0.30")))
	assert.True(t, balances[s.Players[3].ID].Equal(dec("-0.30")))
	assert.True(t, aggregate.CurrentPot(next).Equal(dec("0.60")))
}

func TestApplyRoundRejectsZeroWinners(t *testing.T) {
	s := newTableSession(t, "0.30", "P1", "P2")

	_, err := ApplyRound(s, game.Prese{s.Players[0].ID: 0, s.Players[1].ID: 0}, nil, "")
	requireCode(t, err, pkgerrors.CodeValidation)
	assert.Empty(t, s.Events)
}

func TestApplyRoundRejectsUnknownPlayers(t *testing.T) {
	s := newTableSession(t, "0.30", "P1", "P2")

	_, err := ApplyRound(s, game.Prese{"ghost": 3}, nil, "")
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = ApplyRound(s, game.Prese{s.Players[0].ID: 3}, []string{"ghost"}, "")
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestApplyRoundWithAmountsOverridesComputation(t *testing.T) {
	s := newTableSession(t, "0.30", "P1", "P2", "P3")
	s, err := ApplyDealerSelection(s, s.Players[0].ID)
	require.NoError(t, err)

	adjusted := map[string]decimal.Decimal{
		s.Players[1].ID: dec("0.25"),
		s.Players[2].ID: decimal.Zero,
	}
	next, err := ApplyRoundWithAmounts(s, game.Prese{s.Players[1].ID: 3}, nil, "adjusted", adjusted)
	require.NoError(t, err)

	round := next.Events[1]
	require.Len(t, round.Transactions, 1)
	assert.True(t, round.Transactions[0].Amount.Equal(dec("0.25")))
	assert.Equal(t, "adjusted", round.Metadata.Description)
}

func TestApplyGiroChiuso(t *testing.T) {
	s := newTableSession(t, "0.30", "P1", "P2", "P3")
	s.Players[2].IsActive = false
	s, err := ApplyDealerSelection(s, s.Players[0].ID)
	require.NoError(t, err)

	next, err := ApplyGiroChiuso(s)
	require.NoError(t, err)

	event := next.Events[1]
	assert.Equal(t, enums.EventTypeGiroChiuso, event.Type)
	// every roster player pays, inactive included, entries stay explicit
	require.Len(t, event.Transactions, 3)
	for _, tx := range event.Transactions {
		assert.True(t, tx.Amount.Equal(dec("-0.30")))
	}
	assert.Equal(t, s.Players[0].ID, event.Metadata.DealerPlayerID)
	assert.Equal(t, 1, next.CurrentDealerIndex)
	assert.True(t, aggregate.CurrentPot(next).Equal(dec("1.20")))
}

func TestApplyManualEntryKeepsZeroAmounts(t *testing.T) {
	s := newTableSession(t, "0.30", "P1", "P2")

	next, err := ApplyManualEntry(s, map[string]decimal.Decimal{
		s.Players[0].ID: dec("1.50"),
		s.Players[1].ID: decimal.Zero,
	}, "correction")
	require.NoError(t, err)

	event := next.Events[0]
	assert.Equal(t, enums.EventTypeManualEntry, event.Type)
	// manual entries keep explicit zero entries and need not sum to zero
	require.Len(t, event.Transactions, 2)
	assert.Equal(t, "correction", event.Metadata.Description)
	// no dealer rotation
	assert.Equal(t, s.CurrentDealerIndex, next.CurrentDealerIndex)
}

func TestApplyManualEntryUnknownPlayer(t *testing.T) {
	s := newTableSession(t, "0.30", "P1", "P2")

	_, err := ApplyManualEntry(s, map[string]decimal.Decimal{"ghost": dec("1")}, "")
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestApplyManualEntryUpdate(t *testing.T) {
	s := newTableSession(t, "0.30", "P1", "P2")
	s, err := ApplyManualEntry(s, map[string]decimal.Decimal{s.Players[0].ID: dec("1")}, "before")
	require.NoError(t, err)

	next, err := ApplyManualEntryUpdate(s, s.Events[0].ID, map[string]decimal.Decimal{
		s.Players[1].ID: dec("-2"),
	}, "after")
	require.NoError(t, err)

	event := next.Events[0]
	require.Len(t, event.Transactions, 1)
	assert.Equal(t, s.Players[1].ID, event.Transactions[0].PlayerID)
	assert.Equal(t, "after", event.Metadata.Description)
	// original value untouched
	assert.Equal(t, "before", s.Events[0].Metadata.Description)
}

func TestApplyManualEntryUpdateErrors(t *testing.T) {
	s := newTableSession(t, "0.30", "P1", "P2")
	s, err := ApplyDealerSelection(s, s.Players[0].ID)
	require.NoError(t, err)

	_, err = ApplyManualEntryUpdate(s, "missing", nil, "")
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = ApplyManualEntryUpdate(s, s.Events[0].ID, nil, "")
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestApplyEventDeletionRealignsDealer(t *testing.T) {
	s := newTableSession(t, "0.30", "P1", "P2", "P3")
	s, err := ApplyDealerSelection(s, s.Players[0].ID)
	require.NoError(t, err)
	s, err = ApplyDealerSelection(s, s.Players[2].ID)
	require.NoError(t, err)

	// deleting the latest dealer_pay falls back to the previous one
	next, err := ApplyEventDeletion(s, s.Events[1].ID)
	require.NoError(t, err)
	require.Len(t, next.Events, 1)
	assert.Equal(t, s.Players[0].ID, aggregate.CurrentDealerID(next))
	assert.Equal(t, 0, next.CurrentDealerIndex)

	_, err = ApplyEventDeletion(s, "missing")
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestComputeRoundPayoutsMatchesApplyRound(t *testing.T) {
	s := newTableSession(t, "0.30", "P1", "P2", "P3", "P4")
	s, err := ApplyDealerSelection(s, s.Players[0].ID)
	require.NoError(t, err)

	prese := game.Prese{s.Players[1].ID: 2, s.Players[2].ID: 1}
	preview, err := ComputeRoundPayouts(s, prese, nil)
	require.NoError(t, err)

	next, err := ApplyRound(s, prese, nil, "")
	require.NoError(t, err)

	for _, tx := range next.Events[1].Transactions {
		assert.True(t, tx.Amount.Equal(preview[tx.PlayerID]),
			"preview mismatch for %s", tx.PlayerID)
	}
	// preview never appended anything
	assert.Len(t, s.Events, 1)
}
