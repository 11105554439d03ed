package contact

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totalawareness/backend/pkg/db/models"
)

// Repository stores contact-form submissions.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a submission.
func (r *Repository) Create(ctx context.Context, msg *models.ContactMessage) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListRecent returns the latest submissions, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	var out []models.ContactMessage
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
