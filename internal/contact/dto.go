package contact

import (
	"time"

	"github.com/google/uuid"

	"github.com/totalawareness/backend/pkg/db/models"
)

// SubmitRequest is the contact-form payload.
type SubmitRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=128"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

// MessageDTO is the stored submission.
type MessageDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(msg *models.ContactMessage) *MessageDTO {
	if msg == nil {
		return nil
	}
	return &MessageDTO{
		ID:        msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt,
	}
}
