package memberships

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totalawareness/backend/internal/policy"
	"github.com/totalawareness/backend/pkg/db"
	"github.com/totalawareness/backend/pkg/db/models"
	pkgerrors "github.com/totalawareness/backend/pkg/errors"
)

type membershipsRepository interface {
	Create(ctx context.Context, m *models.Membership) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Membership, error)
	FindByUserAndCompany(ctx context.Context, userID, companyID uuid.UUID) (*models.Membership, error)
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error
	SetRole(ctx context.Context, id uuid.UUID, roleID int16) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListMembers(ctx context.Context, companyID uuid.UUID) ([]MemberDTO, error)
	ListPending(ctx context.Context, companyID uuid.UUID) ([]MemberDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]UserCompanyDTO, error)
}

type companiesRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

type rolesRepository interface {
	FindByID(ctx context.Context, id int16) (*models.Role, error)
}

// Service exposes the membership lifecycle operations.
type Service interface {
	Join(ctx context.Context, userID, companyID uuid.UUID) (*JoinResultDTO, error)
	Members(ctx context.Context, actorID, companyID uuid.UUID) ([]MemberDTO, error)
	Pending(ctx context.Context, actorID, companyID uuid.UUID) ([]MemberDTO, error)
	Approve(ctx context.Context, actorID, membershipID uuid.UUID) (*MembershipDTO, error)
	Reject(ctx context.Context, actorID, membershipID uuid.UUID) error
	UpdateRole(ctx context.Context, actorID, membershipID uuid.UUID, newRoleID int16) (*MembershipDTO, error)
	Remove(ctx context.Context, actorID, membershipID uuid.UUID) error
	MyCompanies(ctx context.Context, userID uuid.UUID) ([]UserCompanyDTO, error)
}

type service struct {
	repo      membershipsRepository
	companies companiesRepository
	roles     rolesRepository
}

// NewService builds a membership service with the provided repositories.
func NewService(repo membershipsRepository, companies companiesRepository, roles rolesRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	if companies == nil {
		return nil, fmt.Errorf("companies repository required")
	}
	if roles == nil {
		return nil, fmt.Errorf("roles repository required")
	}
	return &service{repo: repo, companies: companies, roles: roles}, nil
}

func (s *service) Join(ctx context.Context, userID, companyID uuid.UUID) (*JoinResultDTO, error) {
	company, err := s.loadCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUserAndCompany(ctx, userID, companyID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "already a member or request pending")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}

	m := &models.Membership{
		UserID:    userID,
		CompanyID: companyID,
		RoleID:    policy.DefaultJoinRole,
		Approved:  company.Public,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		// The unique constraint wins races the existence check missed.
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "already a member or request pending")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
	}

	result := &JoinResultDTO{
		Membership: *FromModel(m),
		Joined:     company.Public,
		Message:    "join request pending approval",
	}
	if company.Public {
		result.Message = "joined company"
	}
	return result, nil
}

func (s *service) Members(ctx context.Context, actorID, companyID uuid.UUID) ([]MemberDTO, error) {
	company, err := s.loadCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if actorID != company.OwnerID {
		m, err := s.actorMembership(ctx, actorID, companyID)
		if err != nil {
			return nil, err
		}
		if m == nil || !m.Approved {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "membership required")
		}
	}

	members, err := s.repo.ListMembers(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
	}
	return members, nil
}

func (s *service) Pending(ctx context.Context, actorID, companyID uuid.UUID) ([]MemberDTO, error) {
	company, err := s.loadCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if err := s.requireManager(ctx, actorID, company); err != nil {
		return nil, err
	}

	pending, err := s.repo.ListPending(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending requests")
	}
	return pending, nil
}

func (s *service) Approve(ctx context.Context, actorID, membershipID uuid.UUID) (*MembershipDTO, error) {
	m, company, err := s.resolveTarget(ctx, membershipID)
	if err != nil {
		return nil, err
	}

	if err := s.requireManager(ctx, actorID, company); err != nil {
		return nil, err
	}

	// Approving an already-approved membership is a no-op.
	if !m.Approved {
		if err := s.repo.SetApproved(ctx, m.ID, true); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve membership")
		}
		m.Approved = true
	}
	return FromModel(m), nil
}

func (s *service) Reject(ctx context.Context, actorID, membershipID uuid.UUID) error {
	m, company, err := s.resolveTarget(ctx, membershipID)
	if err != nil {
		return err
	}

	if m.UserID == company.OwnerID {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot remove the owner")
	}

	if err := s.requireManager(ctx, actorID, company); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, m.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject membership")
	}
	return nil
}

func (s *service) UpdateRole(ctx context.Context, actorID, membershipID uuid.UUID, newRoleID int16) (*MembershipDTO, error) {
	m, company, err := s.resolveTarget(ctx, membershipID)
	if err != nil {
		return nil, err
	}

	if m.UserID == company.OwnerID {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot change the owner's role")
	}

	if _, err := s.roles.FindByID(ctx, newRoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "role not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role")
	}

	if err := s.requireManager(ctx, actorID, company); err != nil {
		return nil, err
	}

	actorRole, err := s.actorRole(ctx, actorID, company)
	if err != nil {
		return nil, err
	}
	if !policy.CanAssignRole(actorRole, newRoleID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can assign admin-level roles")
	}

	if err := s.repo.SetRole(ctx, m.ID, newRoleID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update role")
	}
	m.RoleID = newRoleID
	return FromModel(m), nil
}

func (s *service) Remove(ctx context.Context, actorID, membershipID uuid.UUID) error {
	m, company, err := s.resolveTarget(ctx, membershipID)
	if err != nil {
		return err
	}

	// Checked before any authorization branch.
	if m.UserID == company.OwnerID {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot remove the owner")
	}

	allowed := actorID == m.UserID || actorID == company.OwnerID
	if !allowed {
		actor, err := s.actorMembership(ctx, actorID, company.ID)
		if err != nil {
			return err
		}
		allowed = actor != nil && policy.CanManage(actor.RoleID, actor.Approved)
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient company role")
	}

	if err := s.repo.Delete(ctx, m.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove membership")
	}
	return nil
}

func (s *service) MyCompanies(ctx context.Context, userID uuid.UUID) ([]UserCompanyDTO, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user companies")
	}
	return rows, nil
}

func (s *service) loadCompany(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	return company, nil
}

func (s *service) resolveTarget(ctx context.Context, membershipID uuid.UUID) (*models.Membership, *models.Company, error) {
	m, err := s.repo.FindByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "membership not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	company, err := s.loadCompany(ctx, m.CompanyID)
	if err != nil {
		return nil, nil, err
	}
	return m, company, nil
}

func (s *service) actorMembership(ctx context.Context, actorID, companyID uuid.UUID) (*models.Membership, error) {
	m, err := s.repo.FindByUserAndCompany(ctx, actorID, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load actor membership")
	}
	return m, nil
}

// requireManager rejects actors who are neither the company owner nor an
// approved admin-level member.
func (s *service) requireManager(ctx context.Context, actorID uuid.UUID, company *models.Company) error {
	if actorID == company.OwnerID {
		return nil
	}
	actor, err := s.actorMembership(ctx, actorID, company.ID)
	if err != nil {
		return err
	}
	if actor == nil || !policy.CanManage(actor.RoleID, actor.Approved) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient company role")
	}
	return nil
}

func (s *service) actorRole(ctx context.Context, actorID uuid.UUID, company *models.Company) (int16, error) {
	if actorID == company.OwnerID {
		return policy.RoleOwner, nil
	}
	actor, err := s.actorMembership(ctx, actorID, company.ID)
	if err != nil {
		return 0, err
	}
	if actor == nil {
		return 0, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient company role")
	}
	return actor.RoleID, nil
}
