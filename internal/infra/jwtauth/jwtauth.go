// Package jwtauth signs and verifies HS256 access tokens in the shape GoTrue
// issues them: sub is the user id, email is carried as a claim.
package jwtauth

import (
	"fmt"
	"time"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the claims of an access token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Sign issues an access token for userID valid for ttl.
func Sign(secret []byte, userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "smartpresence-bfa",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify parses tokenString and returns the identity it carries.
func Verify(secret []byte, tokenString string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "Token inválido ou expirado", RedirectTo: "/login"}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, &domain.ErrUnauthorized{Message: "Token inválido", RedirectTo: "/login"}
	}

	return &domain.Identity{
		UserID:      claims.Subject,
		Email:       claims.Email,
		AccessToken: tokenString,
	}, nil
}
