package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership links a user with a company and captures their role and
// approval state. Exactly one row may exist per (user, company) pair.
type Membership struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:memberships_user_company_key"`
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;not null;uniqueIndex:memberships_user_company_key"`
	RoleID    int16     `gorm:"column:role_id;not null"`
	Approved  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
