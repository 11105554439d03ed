package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage stores a contact-form submission. Delivery to a mailbox is a
// separate concern; the API only records the intake.
type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:text;not null"`
	Email     string    `gorm:"type:text;not null"`
	Message   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
