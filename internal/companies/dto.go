package companies

import (
	"time"

	"github.com/google/uuid"

	"github.com/totalawareness/backend/pkg/db/models"
)

// CompanyDTO is the API representation of a company.
type CompanyDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Public      bool      `json:"public"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PublicCompanyDTO augments the company with marketing-page fields.
type PublicCompanyDTO struct {
	CompanyDTO
	OwnerName   string `json:"owner_name"`
	MemberCount int64  `json:"member_count"`
}

// ViewerMembershipDTO describes the requester's standing in a company.
type ViewerMembershipDTO struct {
	MembershipID uuid.UUID `json:"membership_id"`
	RoleID       int16     `json:"role_id"`
	Approved     bool      `json:"approved"`
}

// CompanyDetailDTO is the ViewCompanyDetail response.
type CompanyDetailDTO struct {
	Company CompanyDTO           `json:"company"`
	IsOwner bool                 `json:"is_owner"`
	Viewer  *ViewerMembershipDTO `json:"viewer,omitempty"`
}

// PublicCompanyPage is a cursor-paginated slice of public companies.
type PublicCompanyPage struct {
	Companies  []PublicCompanyDTO `json:"companies"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

func FromModel(company *models.Company) *CompanyDTO {
	if company == nil {
		return nil
	}
	return &CompanyDTO{
		ID:          company.ID,
		Name:        company.Name,
		Description: company.Description,
		Public:      company.Public,
		OwnerID:     company.OwnerID,
		CreatedAt:   company.CreatedAt,
		UpdatedAt:   company.UpdatedAt,
	}
}
