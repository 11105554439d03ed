package roles

import "github.com/totalawareness/backend/pkg/db/models"

// RoleDTO is the API representation of a catalog role.
type RoleDTO struct {
	ID          int16  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       int    `json:"level"`
}

func FromModel(role *models.Role) *RoleDTO {
	if role == nil {
		return nil
	}
	return &RoleDTO{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Level:       role.Level,
	}
}

func FromModels(rows []models.Role) []RoleDTO {
	out := make([]RoleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
