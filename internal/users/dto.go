package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/totalawareness/backend/pkg/db/models"
)

// UserDTO is the API representation of a user. The password hash never leaves
// the service layer.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
