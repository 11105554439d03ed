package faqs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/totalawareness/backend/pkg/db/models"
	pkgerrors "github.com/totalawareness/backend/pkg/errors"
)

type faqsRepository interface {
	Create(ctx context.Context, faq *models.FAQ) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.FAQ, error)
	Update(ctx context.Context, faq *models.FAQ) error
	List(ctx context.Context) ([]models.FAQ, error)
}

// Service exposes FAQ operations.
type Service interface {
	List(ctx context.Context) ([]FAQDTO, error)
	Create(ctx context.Context, req CreateFAQRequest) (*FAQDTO, error)
	Update(ctx context.Context, faqID uuid.UUID, req UpdateFAQRequest) (*FAQDTO, error)
}

type service struct {
	repo faqsRepository
}

// NewService builds the FAQ service.
func NewService(repo faqsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("faqs repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]FAQDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list faqs")
	}
	out := make([]FAQDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, req CreateFAQRequest) (*FAQDTO, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question is required")
	}

	faq := &models.FAQ{
		ID:       uuid.New(),
		Question: question,
	}
	if err := s.repo.Create(ctx, faq); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create faq")
	}
	return FromModel(faq), nil
}

func (s *service) Update(ctx context.Context, faqID uuid.UUID, req UpdateFAQRequest) (*FAQDTO, error) {
	faq, err := s.repo.FindByID(ctx, faqID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "faq not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load faq")
	}

	if req.Question != nil {
		question := strings.TrimSpace(*req.Question)
		if question == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "question is required")
		}
		faq.Question = question
	}
	if req.Answer != nil {
		answer := strings.TrimSpace(*req.Answer)
		if answer == "" {
			faq.Answer = nil
		} else {
			faq.Answer = &answer
		}
	}

	if err := s.repo.Update(ctx, faq); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update faq")
	}
	return FromModel(faq), nil
}
