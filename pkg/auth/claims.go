package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims are the JWT claims carried by storefront access tokens.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// AccessTokenPayload captures the inputs needed to mint a token.
type AccessTokenPayload struct {
	UserID uuid.UUID
	JTI    string
}
