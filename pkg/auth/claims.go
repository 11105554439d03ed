package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT. Company
// roles are resolved per request against the membership table, so the token
// only identifies the user.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	UserName string
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	UserName string    `json:"user_name,omitempty"`
	jwt.RegisteredClaims
}
