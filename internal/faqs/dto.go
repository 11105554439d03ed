package faqs

import (
	"time"

	"github.com/google/uuid"

	"github.com/totalawareness/backend/pkg/db/models"
)

// FAQDTO is the API representation of one FAQ entry.
type FAQDTO struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    *string   `json:"answer,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateFAQRequest submits a new question.
type CreateFAQRequest struct {
	Question string `json:"question" validate:"required,min=5,max=500"`
}

// UpdateFAQRequest edits a question or records an answer. Nil fields stay
// unchanged.
type UpdateFAQRequest struct {
	Question *string `json:"question" validate:"omitempty,min=5,max=500"`
	Answer   *string `json:"answer" validate:"omitempty,max=5000"`
}

func FromModel(faq *models.FAQ) *FAQDTO {
	if faq == nil {
		return nil
	}
	return &FAQDTO{
		ID:        faq.ID,
		Question:  faq.Question,
		Answer:    faq.Answer,
		CreatedAt: faq.CreatedAt,
		UpdatedAt: faq.UpdatedAt,
	}
}
