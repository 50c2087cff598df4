// Package auth verifies session tokens issued by the external identity
// provider. The backend never issues credentials itself; it only checks the
// signature and consumes the subject claim as the stable user identity.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates provider-signed HS256 session tokens.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a Verifier.
// secret must be at least 32 characters for HS256 security.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses and validates a bearer token.
// Returns the subject claim — the external user identity — if valid.
func (v *Verifier) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}

	return claims.Subject, nil
}
