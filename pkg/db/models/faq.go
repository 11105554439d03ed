package models

import (
	"time"

	"github.com/google/uuid"
)

// FAQ holds one question shown on the marketing site, answered by staff.
type FAQ struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Question  string    `gorm:"type:text;not null"`
	Answer    *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
