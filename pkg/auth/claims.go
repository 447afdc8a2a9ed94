package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID int64
	Admin  bool
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients. Admin rides in
// the token so handlers can scope queries without an extra lookup; the session
// check keeps revoked tokens out.
type AccessTokenClaims struct {
	UserID int64 `json:"user_id"`
	Admin  bool  `json:"admin"`
	jwt.RegisteredClaims
}
