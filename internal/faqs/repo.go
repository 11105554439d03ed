package faqs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totalawareness/backend/pkg/db/models"
)

// Repository exposes FAQ persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new FAQ entry.
func (r *Repository) Create(ctx context.Context, faq *models.FAQ) error {
	if faq.ID == uuid.Nil {
		faq.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(faq).Error
}

// FindByID retrieves an FAQ by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FAQ, error) {
	var faq models.FAQ
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&faq).Error
	if err != nil {
		return nil, err
	}
	return &faq, nil
}

// Update persists the full FAQ row.
func (r *Repository) Update(ctx context.Context, faq *models.FAQ) error {
	return r.db.WithContext(ctx).Save(faq).Error
}

// List returns every FAQ, answered entries first, oldest first within each
// group.
func (r *Repository) List(ctx context.Context) ([]models.FAQ, error) {
	var out []models.FAQ
	err := r.db.WithContext(ctx).
		Order("answer IS NULL, created_at").
		Find(&out).Error
	return out, err
}
