package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucabarbieri/bestia-backend/pkg/game"
	"github.com/lucabarbieri/bestia-backend/pkg/metrics"
)

// SessionStore is the slice of the session registry the ledger needs:
// fetch a session and persist a new version of it.
type SessionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*game.Session, error)
	Update(ctx context.Context, session *game.Session) (*game.Session, error)
}

// Service records ledger events against stored sessions.
type Service interface {
	RecordDealerSelection(ctx context.Context, sessionID uuid.UUID, dealerPlayerID string) (*game.Session, error)
	RecordRound(ctx context.Context, sessionID uuid.UUID, input RecordRoundInput) (*game.Session, error)
	RecordGiroChiuso(ctx context.Context, sessionID uuid.UUID) (*game.Session, error)
	RecordManualEntry(ctx context.Context, sessionID uuid.UUID, input ManualEntryInput) (*game.Session, error)
	UpdateManualEntry(ctx context.Context, sessionID uuid.UUID, eventID string, input ManualEntryInput) (*game.Session, error)
	DeleteEvent(ctx context.Context, sessionID uuid.UUID, eventID string) (*game.Session, error)
	PreviewRoundPayouts(ctx context.Context, sessionID uuid.UUID, prese game.Prese, bestiaPlayerIDs []string) (map[string]decimal.Decimal, error)
}

// RecordRoundInput captures one finished round. When Amounts is non-nil the
// caller reviewed and adjusted the proposed payouts and those amounts are
// committed as-is instead of the computed ones.
type RecordRoundInput struct {
	Prese           game.Prese
	BestiaPlayerIDs []string
	Description     string
	Amounts         map[string]decimal.Decimal
}

// ManualEntryInput captures a free-form correction.
type ManualEntryInput struct {
	Amounts     map[string]decimal.Decimal
	Description string
}

type service struct {
	store   SessionStore
	metrics *metrics.LedgerMetrics
}

// NewService wires a ledger service with the provided session store.
// Metrics may be nil.
func NewService(store SessionStore, ledgerMetrics *metrics.LedgerMetrics) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &service{store: store, metrics: ledgerMetrics}, nil
}

func (s *service) RecordDealerSelection(ctx context.Context, sessionID uuid.UUID, dealerPlayerID string) (*game.Session, error) {
	return s.apply(ctx, sessionID, "dealer_pay", func(session *game.Session) (*game.Session, error) {
		return ApplyDealerSelection(session, dealerPlayerID)
	})
}

func (s *service) RecordRound(ctx context.Context, sessionID uuid.UUID, input RecordRoundInput) (*game.Session, error) {
	return s.apply(ctx, sessionID, "round_end", func(session *game.Session) (*game.Session, error) {
		if input.Amounts != nil {
			return ApplyRoundWithAmounts(session, input.Prese, input.BestiaPlayerIDs, input.Description, input.Amounts)
		}
		return ApplyRound(session, input.Prese, input.BestiaPlayerIDs, input.Description)
	})
}

func (s *service) RecordGiroChiuso(ctx context.Context, sessionID uuid.UUID) (*game.Session, error) {
	return s.apply(ctx, sessionID, "giro_chiuso", ApplyGiroChiuso)
}

func (s *service) RecordManualEntry(ctx context.Context, sessionID uuid.UUID, input ManualEntryInput) (*game.Session, error) {
	return s.apply(ctx, sessionID, "manual_entry", func(session *game.Session) (*game.Session, error) {
		return ApplyManualEntry(session, input.Amounts, input.Description)
	})
}

func (s *service) UpdateManualEntry(ctx context.Context, sessionID uuid.UUID, eventID string, input ManualEntryInput) (*game.Session, error) {
	return s.apply(ctx, sessionID, "manual_entry_update", func(session *game.Session) (*game.Session, error) {
		return ApplyManualEntryUpdate(session, eventID, input.Amounts, input.Description)
	})
}

func (s *service) DeleteEvent(ctx context.Context, sessionID uuid.UUID, eventID string) (*game.Session, error) {
	return s.apply(ctx, sessionID, "event_delete", func(session *game.Session) (*game.Session, error) {
		return ApplyEventDeletion(session, eventID)
	})
}

func (s *service) PreviewRoundPayouts(ctx context.Context, sessionID uuid.UUID, prese game.Prese, bestiaPlayerIDs []string) (map[string]decimal.Decimal, error) {
	session, err := s.store.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ComputeRoundPayouts(session, prese, bestiaPlayerIDs)
}

func (s *service) apply(ctx context.Context, sessionID uuid.UUID, operation string, fn func(*game.Session) (*game.Session, error)) (*game.Session, error) {
	session, err := s.store.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next, err := fn(session)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.Update(ctx, next)
	if err != nil {
		return nil, err
	}

	s.metrics.IncOperation(operation)
	return stored, nil
}
