package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucabarbieri/bestia-backend/pkg/db/models"
	pkgerrors "github.com/lucabarbieri/bestia-backend/pkg/errors"
	"github.com/lucabarbieri/bestia-backend/pkg/game"
	"github.com/lucabarbieri/bestia-backend/pkg/pagination"
)

// CurrentPointerStore holds the id of the session the table is currently
// playing. Implemented by pkg/redis.Client.
type CurrentPointerStore interface {
	SetCurrentSession(ctx context.Context, sessionID string) error
	GetCurrentSession(ctx context.Context) (string, error)
	ClearCurrentSession(ctx context.Context) error
}

// Service is the session registry. Its GetByID/Update pair also backs the
// ledger's session store.
type Service interface {
	Create(ctx context.Context, input CreateSessionInput) (*game.Session, error)
	List(ctx context.Context, params pagination.Params) (*SessionList, error)
	GetByID(ctx context.Context, id uuid.UUID) (*game.Session, error)
	Update(ctx context.Context, session *game.Session) (*game.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Import(ctx context.Context, document *game.Session) (*game.Session, error)
	SetCurrent(ctx context.Context, id uuid.UUID) error
	GetCurrent(ctx context.Context) (*game.Session, error)
	ClearCurrent(ctx context.Context) error
}

type service struct {
	repo    Repository
	pointer CurrentPointerStore
}

// NewService wires the registry dependencies.
func NewService(repo Repository, pointer CurrentPointerStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sessions: repository is required")
	}
	if pointer == nil {
		return nil, fmt.Errorf("sessions: current pointer store is required")
	}
	return &service{repo: repo, pointer: pointer}, nil
}

func (s *service) Create(ctx context.Context, input CreateSessionInput) (*game.Session, error) {
	names := make([]string, 0, len(input.PlayerNames))
	for _, name := range input.PlayerNames {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "player names must not be blank")
		}
		names = append(names, trimmed)
	}
	if len(names) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a session needs at least two players")
	}
	if input.Piatto.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "piatto must not be negative")
	}

	now := time.Now().UTC()
	session := &game.Session{
		ID:                 uuid.New(),
		Piatto:             input.Piatto,
		Currency:           strings.TrimSpace(input.Currency),
		Players:            make([]game.Player, 0, len(names)),
		CurrentDealerIndex: 0,
		Events:             []game.Event{},
		CreatedAt:          now,
		UpdatedAt:          now,
		Version:            1,
	}
	for _, name := range names {
		session.Players = append(session.Players, game.NewPlayer(name))
	}

	if err := s.persistNew(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Import stores an externally decoded document as a new session. A fresh id
// is assigned so re-importing the same share link never collides.
func (s *service) Import(ctx context.Context, document *game.Session) (*game.Session, error) {
	if document == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no session decoded")
	}
	if len(document.Players) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "imported session needs at least two players")
	}

	session := document.Clone()
	session.ID = uuid.New()
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	session.Version = 1
	if session.Events == nil {
		session.Events = []game.Event{}
	}

	if err := s.persistNew(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) persistNew(ctx context.Context, session *game.Session) error {
	document, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding session document")
	}
	record := &models.GameSession{
		ID:        session.ID,
		Document:  document,
		Version:   session.Version,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing session")
	}
	return nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*SessionList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	records, err := s.repo.List(ctx, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing sessions")
	}

	list := &SessionList{Sessions: make([]SessionSummary, 0, len(records))}
	hasMore := len(records) > limit
	if hasMore {
		records = records[:limit]
	}
	for _, record := range records {
		session, err := decodeRecord(&record)
		if err != nil {
			return nil, err
		}
		list.Sessions = append(list.Sessions, summarize(session, &record))
	}
	if hasMore {
		last := records[len(records)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*game.Session, error) {
	record, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading session")
	}
	return decodeRecord(record)
}

func (s *service) Update(ctx context.Context, session *game.Session) (*game.Session, error) {
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session is required")
	}

	updated := session.Clone()
	updated.UpdatedAt = time.Now().UTC()
	document, err := json.Marshal(updated)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding session document")
	}

	rows, err := s.repo.UpdateDocument(ctx, updated.ID, session.Version, document, updated.UpdatedAt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing session")
	}
	if rows == 0 {
		if _, findErr := s.repo.FindByID(ctx, updated.ID); errors.Is(findErr, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "session was modified concurrently")
	}

	updated.Version = session.Version + 1
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting session")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}

	// Best effort: drop a dangling current pointer.
	if current, perr := s.pointer.GetCurrentSession(ctx); perr == nil && current == id.String() {
		_ = s.pointer.ClearCurrentSession(ctx)
	}
	return nil
}

func (s *service) SetCurrent(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.pointer.SetCurrentSession(ctx, id.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "setting current session")
	}
	return nil
}

func (s *service) GetCurrent(ctx context.Context) (*game.Session, error) {
	current, err := s.pointer.GetCurrentSession(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading current session pointer")
	}
	if current == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no current session")
	}

	id, err := uuid.Parse(current)
	if err != nil {
		_ = s.pointer.ClearCurrentSession(ctx)
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no current session")
	}
	session, err := s.GetByID(ctx, id)
	if err != nil {
		if pkgErr := pkgerrors.As(err); pkgErr != nil && pkgErr.Code() == pkgerrors.CodeNotFound {
			_ = s.pointer.ClearCurrentSession(ctx)
		}
		return nil, err
	}
	return session, nil
}

func (s *service) ClearCurrent(ctx context.Context) error {
	if err := s.pointer.ClearCurrentSession(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing current session")
	}
	return nil
}

func decodeRecord(record *models.GameSession) (*game.Session, error) {
	var session game.Session
	if err := json.Unmarshal(record.Document, &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding session document")
	}
	session.Version = record.Version
	return &session, nil
}

func summarize(session *game.Session, record *models.GameSession) SessionSummary {
	names := make([]string, 0, len(session.Players))
	for _, player := range session.Players {
		names = append(names, player.Name)
	}
	return SessionSummary{
		ID:          record.ID,
		Piatto:      session.Piatto,
		Currency:    session.Currency,
		PlayerNames: names,
		EventCount:  len(session.Events),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
