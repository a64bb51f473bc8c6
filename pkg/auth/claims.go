package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Nokp string
	Nama string
	JTI  string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	Nokp string `json:"nokp"`
	Nama string `json:"nama"`
	jwt.RegisteredClaims
}
