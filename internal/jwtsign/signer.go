// Package jwtsign implements the credential signer over an HMAC key. In
// production deployments the key is provisioned through configuration; the
// package owns nothing beyond signing.
package jwtsign

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Signer signs claim sets with HS256.
type Signer struct {
	signingKey []byte
}

func New(signingKey string) *Signer {
	return &Signer{signingKey: []byte(signingKey)}
}

func (s *Signer) Sign(ctx context.Context, claims jwt.MapClaims) (string, error) {
	_ = ctx
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.signingKey)
}

// Parse validates a token produced by Sign and returns its claims. Used by
// tests and diagnostics; verification of issued credentials is the
// consumer's job.
func (s *Signer) Parse(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}
