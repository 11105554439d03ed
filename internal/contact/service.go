package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/totalawareness/backend/pkg/db/models"
	pkgerrors "github.com/totalawareness/backend/pkg/errors"
)

type contactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}

// Service records contact-form submissions. Delivery to a mailbox is a
// separate concern; only the intake is stored.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*MessageDTO, error)
}

type service struct {
	repo contactRepository
}

// NewService builds the contact service.
func NewService(repo contactRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*MessageDTO, error) {
	msg := &models.ContactMessage{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Message: strings.TrimSpace(req.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and message are required")
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store contact message")
	}
	return FromModel(msg), nil
}
