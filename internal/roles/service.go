package roles

import (
	"context"
	"fmt"

	"github.com/totalawareness/backend/pkg/db/models"
	pkgerrors "github.com/totalawareness/backend/pkg/errors"
)

type rolesRepository interface {
	List(ctx context.Context) ([]models.Role, error)
}

// Service exposes the role catalog.
type Service interface {
	List(ctx context.Context) ([]RoleDTO, error)
}

type service struct {
	repo rolesRepository
}

// NewService builds a role service with the provided repository.
func NewService(repo rolesRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("roles repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]RoleDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list roles")
	}
	return FromModels(rows), nil
}
