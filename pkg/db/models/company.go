package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant entity. Names are unique per owner, not globally.
type Company struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:text;not null;uniqueIndex:companies_owner_name_key"`
	Description *string   `gorm:"type:text"`
	Public      bool      `gorm:"not null;default:false"`
	OwnerID     uuid.UUID `gorm:"column:owner_id;type:uuid;not null;uniqueIndex:companies_owner_name_key"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
