package memberships

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totalawareness/backend/pkg/db/models"
)

// Repository exposes membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new membership record.
func (r *Repository) Create(ctx context.Context, m *models.Membership) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByID retrieves a membership by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Membership, error) {
	var m models.Membership
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByUserAndCompany retrieves the unique membership for a pair.
func (r *Repository) FindByUserAndCompany(ctx context.Context, userID, companyID uuid.UUID) (*models.Membership, error) {
	var m models.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND company_id = ?", userID, companyID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SetApproved flips the approval flag on a membership.
func (r *Repository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("id = ?", id).
		Update("approved", approved).Error
}

// SetRole reassigns the membership role.
func (r *Repository) SetRole(ctx context.Context, id uuid.UUID, roleID int16) error {
	return r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("id = ?", id).
		Update("role_id", roleID).Error
}

// Delete removes a membership row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Membership{}).Error
}

// DeleteByCompany removes every membership of a company. Used alongside the
// company delete inside one transaction so sqlite deployments without
// foreign-key enforcement behave like the Postgres cascade.
func (r *Repository) DeleteByCompany(ctx context.Context, companyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&models.Membership{}).Error
}

// CountByCompany returns the number of membership rows for a company.
func (r *Repository) CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}

type memberRow struct {
	MembershipID uuid.UUID
	UserID       uuid.UUID
	UserName     string
	UserEmail    string
	RoleID       int16
	RoleName     string
	RoleLevel    int
	Approved     bool
	JoinedAt     time.Time
}

const memberSelect = `memberships.id AS membership_id, memberships.user_id, users.name AS user_name,
users.email AS user_email, memberships.role_id, roles.name AS role_name, roles.level AS role_level,
memberships.approved, memberships.created_at AS joined_at`

// ListMembers returns the company roster, pending requests first, then by
// role authority.
func (r *Repository) ListMembers(ctx context.Context, companyID uuid.UUID) ([]MemberDTO, error) {
	var rows []memberRow
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Select(memberSelect).
		Joins("JOIN users ON users.id = memberships.user_id").
		Joins("JOIN roles ON roles.id = memberships.role_id").
		Where("memberships.company_id = ?", companyID).
		Order("memberships.approved, roles.level, memberships.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return membersFromRows(rows), nil
}

// ListPending returns only the unapproved requests, oldest first.
func (r *Repository) ListPending(ctx context.Context, companyID uuid.UUID) ([]MemberDTO, error) {
	var rows []memberRow
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Select(memberSelect).
		Joins("JOIN users ON users.id = memberships.user_id").
		Joins("JOIN roles ON roles.id = memberships.role_id").
		Where("memberships.company_id = ? AND memberships.approved = ?", companyID, false).
		Order("memberships.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return membersFromRows(rows), nil
}

func membersFromRows(rows []memberRow) []MemberDTO {
	out := make([]MemberDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, MemberDTO{
			MembershipID: row.MembershipID,
			UserID:       row.UserID,
			UserName:     row.UserName,
			UserEmail:    row.UserEmail,
			RoleID:       row.RoleID,
			RoleName:     row.RoleName,
			RoleLevel:    row.RoleLevel,
			Approved:     row.Approved,
			JoinedAt:     row.JoinedAt,
		})
	}
	return out
}

type userCompanyRow struct {
	MembershipID uuid.UUID
	CompanyID    uuid.UUID
	CompanyName  string
	Public       bool
	OwnerID      uuid.UUID
	RoleID       int16
	RoleName     string
	Approved     bool
	JoinedAt     time.Time
}

// ListForUser returns the user's memberships with company summaries.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]UserCompanyDTO, error) {
	var rows []userCompanyRow
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Select(`memberships.id AS membership_id, companies.id AS company_id, companies.name AS company_name,
companies.public, companies.owner_id, memberships.role_id, roles.name AS role_name,
memberships.approved, memberships.created_at AS joined_at`).
		Joins("JOIN companies ON companies.id = memberships.company_id").
		Joins("JOIN roles ON roles.id = memberships.role_id").
		Where("memberships.user_id = ?", userID).
		Order("companies.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]UserCompanyDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, UserCompanyDTO{
			MembershipID: row.MembershipID,
			CompanyID:    row.CompanyID,
			CompanyName:  row.CompanyName,
			Public:       row.Public,
			OwnerID:      row.OwnerID,
			RoleID:       row.RoleID,
			RoleName:     row.RoleName,
			Approved:     row.Approved,
			JoinedAt:     row.JoinedAt,
		})
	}
	return out, nil
}
