package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GameSession is the persisted form of a tracked table. The full event log
// and roster live in the Document column; Version backs optimistic writes.
type GameSession struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Document  json.RawMessage `gorm:"column:document;type:jsonb;not null"`
	Version   int64           `gorm:"column:version;not null;default:1"`
	CreatedAt time.Time       `gorm:"column:created_at;not null"`
	UpdatedAt time.Time       `gorm:"column:updated_at;not null"`
}

// TableName overrides the GORM default.
func (GameSession) TableName() string { return "game_sessions" }
