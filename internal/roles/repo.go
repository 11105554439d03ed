package roles

import (
	"context"

	"gorm.io/gorm"

	"github.com/totalawareness/backend/pkg/db/models"
)

// Repository exposes role catalog reads.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the role catalog ordered by authority.
func (r *Repository) List(ctx context.Context) ([]models.Role, error) {
	var rows []models.Role
	err := r.db.WithContext(ctx).
		Order("level").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID retrieves a single role.
func (r *Repository) FindByID(ctx context.Context, id int16) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}
