package sessions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucabarbieri/bestia-backend/pkg/db/models"
	"github.com/lucabarbieri/bestia-backend/pkg/pagination"
)

// Repository persists session documents.
type Repository interface {
	Create(ctx context.Context, record *models.GameSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.GameSession, error)
	List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.GameSession, error)
	// UpdateDocument writes the document only when the stored version matches,
	// bumping version by one. It returns the number of rows matched.
	UpdateDocument(ctx context.Context, id uuid.UUID, version int64, document json.RawMessage, updatedAt time.Time) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a session repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, record *models.GameSession) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.GameSession, error) {
	var record models.GameSession
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.GameSession, error) {
	query := r.db.WithContext(ctx).
		Model(&models.GameSession{}).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var records []models.GameSession
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) UpdateDocument(ctx context.Context, id uuid.UUID, version int64, document json.RawMessage, updatedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.GameSession{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]any{
			"document":   document,
			"version":    version + 1,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.GameSession{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
