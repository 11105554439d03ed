package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/totalawareness/backend/pkg/db/models"
)

// MembershipDTO is the API representation of a membership row.
type MembershipDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CompanyID uuid.UUID `json:"company_id"`
	RoleID    int16     `json:"role_id"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

// JoinResultDTO distinguishes an immediate join from a deferred request.
type JoinResultDTO struct {
	Membership MembershipDTO `json:"membership"`
	Joined     bool          `json:"joined"`
	Message    string        `json:"message"`
}

// MemberDTO is a roster entry joined with user and role metadata.
type MemberDTO struct {
	MembershipID uuid.UUID `json:"membership_id"`
	UserID       uuid.UUID `json:"user_id"`
	UserName     string    `json:"user_name"`
	UserEmail    string    `json:"user_email"`
	RoleID       int16     `json:"role_id"`
	RoleName     string    `json:"role_name"`
	RoleLevel    int       `json:"role_level"`
	Approved     bool      `json:"approved"`
	JoinedAt     time.Time `json:"joined_at"`
}

// UserCompanyDTO is a membership joined with its company summary, for the
// "my companies" listing.
type UserCompanyDTO struct {
	MembershipID uuid.UUID `json:"membership_id"`
	CompanyID    uuid.UUID `json:"company_id"`
	CompanyName  string    `json:"company_name"`
	Public       bool      `json:"public"`
	OwnerID      uuid.UUID `json:"owner_id"`
	RoleID       int16     `json:"role_id"`
	RoleName     string    `json:"role_name"`
	Approved     bool      `json:"approved"`
	JoinedAt     time.Time `json:"joined_at"`
}

func FromModel(m *models.Membership) *MembershipDTO {
	if m == nil {
		return nil
	}
	return &MembershipDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		CompanyID: m.CompanyID,
		RoleID:    m.RoleID,
		Approved:  m.Approved,
		CreatedAt: m.CreatedAt,
	}
}
