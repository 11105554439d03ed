package companies

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totalawareness/backend/pkg/db/models"
	"github.com/totalawareness/backend/pkg/pagination"
)

// Repository exposes company persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new company record. The caller assigns the ID when it
// needs to reference the row inside the same transaction.
func (r *Repository) Create(ctx context.Context, company *models.Company) error {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(company).Error
}

// FindByID retrieves a company by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// Update persists the full company row.
func (r *Repository) Update(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

// Delete removes the company row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Company{}).Error
}

type publicCompanyRow struct {
	models.Company
	OwnerName   string
	MemberCount int64
}

// ListPublic returns public companies with owner name and approved member
// count, newest first, cursor-paginated.
func (r *Repository) ListPublic(ctx context.Context, limit int, cursor *pagination.Cursor) ([]PublicCompanyDTO, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Company{}).
		Select("companies.*, users.name AS owner_name, (SELECT COUNT(*) FROM memberships m WHERE m.company_id = companies.id AND m.approved) AS member_count").
		Joins("JOIN users ON users.id = companies.owner_id").
		Where("companies.public = ?", true).
		Order("companies.created_at DESC, companies.id DESC").
		Limit(limit)

	if cursor != nil {
		query = query.Where(
			"(companies.created_at < ?) OR (companies.created_at = ? AND companies.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []publicCompanyRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return publicCompaniesFromRows(rows), nil
}

// ListExplore returns every company, public first, then newest first.
func (r *Repository) ListExplore(ctx context.Context, limit int) ([]PublicCompanyDTO, error) {
	var rows []publicCompanyRow
	err := r.db.WithContext(ctx).
		Model(&models.Company{}).
		Select("companies.*, users.name AS owner_name, (SELECT COUNT(*) FROM memberships m WHERE m.company_id = companies.id AND m.approved) AS member_count").
		Joins("JOIN users ON users.id = companies.owner_id").
		Order("companies.public DESC, companies.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return publicCompaniesFromRows(rows), nil
}

func publicCompaniesFromRows(rows []publicCompanyRow) []PublicCompanyDTO {
	out := make([]PublicCompanyDTO, 0, len(rows))
	for i := range rows {
		out = append(out, PublicCompanyDTO{
			CompanyDTO:  *FromModel(&rows[i].Company),
			OwnerName:   rows[i].OwnerName,
			MemberCount: rows[i].MemberCount,
		})
	}
	return out
}
