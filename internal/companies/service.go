package companies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totalawareness/backend/internal/memberships"
	"github.com/totalawareness/backend/internal/policy"
	"github.com/totalawareness/backend/pkg/db"
	"github.com/totalawareness/backend/pkg/db/models"
	pkgerrors "github.com/totalawareness/backend/pkg/errors"
	"github.com/totalawareness/backend/pkg/pagination"
)

type companiesRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	ListPublic(ctx context.Context, limit int, cursor *pagination.Cursor) ([]PublicCompanyDTO, error)
	ListExplore(ctx context.Context, limit int) ([]PublicCompanyDTO, error)
}

type membershipLookup interface {
	FindByUserAndCompany(ctx context.Context, userID, companyID uuid.UUID) (*models.Membership, error)
}

// Service exposes company operations.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateCompanyInput) (*CompanyDTO, error)
	Update(ctx context.Context, actorID, companyID uuid.UUID, input UpdateCompanyInput) (*CompanyDTO, error)
	Delete(ctx context.Context, actorID, companyID uuid.UUID) error
	Detail(ctx context.Context, requesterID *uuid.UUID, companyID uuid.UUID) (*CompanyDetailDTO, error)
	ListPublic(ctx context.Context, params pagination.Params) (*PublicCompanyPage, error)
	Explore(ctx context.Context, limit int) ([]PublicCompanyDTO, error)
}

type service struct {
	client      *db.Client
	repo        companiesRepository
	memberships membershipLookup
}

// NewService builds a company service. The db client is required because
// create and delete span multiple rows.
func NewService(client *db.Client, repo companiesRepository, membershipRepo membershipLookup) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("companies repository required")
	}
	if membershipRepo == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	return &service{
		client:      client,
		repo:        repo,
		memberships: membershipRepo,
	}, nil
}

// CreateCompanyInput captures the fields accepted at creation.
type CreateCompanyInput struct {
	Name        string
	Description *string
	Public      bool
}

// UpdateCompanyInput captures the mutable company fields. Nil means "leave
// unchanged".
type UpdateCompanyInput struct {
	Name        *string
	Description *string
	Public      *bool
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateCompanyInput) (*CompanyDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name is required")
	}

	company := &models.Company{
		ID:          uuid.New(),
		Name:        name,
		Description: input.Description,
		Public:      input.Public,
		OwnerID:     ownerID,
	}

	// Company and owner membership land together or not at all.
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := NewRepository(tx).Create(ctx, company); err != nil {
			return err
		}
		return memberships.NewRepository(tx).Create(ctx, &models.Membership{
			UserID:    ownerID,
			CompanyID: company.ID,
			RoleID:    policy.RoleOwner,
			Approved:  true,
		})
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "you already have a company with that name")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create company")
	}

	return FromModel(company), nil
}

func (s *service) Update(ctx context.Context, actorID, companyID uuid.UUID, input UpdateCompanyInput) (*CompanyDTO, error) {
	company, err := s.loadCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if err := s.requireManager(ctx, actorID, company); err != nil {
		return nil, err
	}

	// Visibility is owner-only even for admins.
	if input.Public != nil && actorID != company.OwnerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can change visibility")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name is required")
		}
		company.Name = name
	}
	if input.Description != nil {
		desc := *input.Description
		company.Description = &desc
	}
	if input.Public != nil {
		company.Public = *input.Public
	}

	if err := s.repo.Update(ctx, company); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "you already have a company with that name")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update company")
	}
	return FromModel(company), nil
}

func (s *service) Delete(ctx context.Context, actorID, companyID uuid.UUID) error {
	company, err := s.loadCompany(ctx, companyID)
	if err != nil {
		return err
	}

	if actorID != company.OwnerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can delete the company")
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := memberships.NewRepository(tx).DeleteByCompany(ctx, companyID); err != nil {
			return err
		}
		return NewRepository(tx).Delete(ctx, companyID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete company")
	}
	return nil
}

func (s *service) Detail(ctx context.Context, requesterID *uuid.UUID, companyID uuid.UUID) (*CompanyDetailDTO, error) {
	company, err := s.loadCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var viewer *models.Membership
	if requesterID != nil {
		viewer, err = s.viewerMembership(ctx, *requesterID, companyID)
		if err != nil {
			return nil, err
		}
	}

	isOwner := requesterID != nil && *requesterID == company.OwnerID

	if !company.Public && !isOwner && viewer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "membership required")
	}

	detail := &CompanyDetailDTO{
		Company: *FromModel(company),
		IsOwner: isOwner,
	}
	if viewer != nil {
		detail.Viewer = &ViewerMembershipDTO{
			MembershipID: viewer.ID,
			RoleID:       viewer.RoleID,
			Approved:     viewer.Approved,
		}
	}
	return detail, nil
}

func (s *service) ListPublic(ctx context.Context, params pagination.Params) (*PublicCompanyPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListPublic(ctx, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list public companies")
	}

	page := &PublicCompanyPage{Companies: rows}
	if len(rows) > limit {
		page.Companies = rows[:limit]
		last := page.Companies[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

func (s *service) Explore(ctx context.Context, limit int) ([]PublicCompanyDTO, error) {
	rows, err := s.repo.ListExplore(ctx, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "explore companies")
	}
	return rows, nil
}

func (s *service) loadCompany(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
	company, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	return company, nil
}

func (s *service) viewerMembership(ctx context.Context, userID, companyID uuid.UUID) (*models.Membership, error) {
	m, err := s.memberships.FindByUserAndCompany(ctx, userID, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	return m, nil
}

func (s *service) requireManager(ctx context.Context, actorID uuid.UUID, company *models.Company) error {
	if actorID == company.OwnerID {
		return nil
	}
	m, err := s.viewerMembership(ctx, actorID, company.ID)
	if err != nil {
		return err
	}
	if m == nil || !policy.CanManage(m.RoleID, m.Approved) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient company role")
	}
	return nil
}
