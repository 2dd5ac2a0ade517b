package crypto

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
)

type tokenIssuer struct {
	secret   []byte
	ttl      time.Duration
	clockNow func() time.Time
}

// NewTokenIssuer signs and verifies HS256 tokens whose subject is the user id.
func NewTokenIssuer(secret string, ttl time.Duration) *tokenIssuer {
	return &tokenIssuer{
		secret:   []byte(secret),
		ttl:      ttl,
		clockNow: time.Now,
	}
}

func (t *tokenIssuer) Issue(uid string) (string, error) {
	now := t.clockNow()
	claims := jwt.RegisteredClaims{
		Subject:   uid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify returns the user id carried by token or an UnauthorizedError.
func (t *tokenIssuer) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", errs.NewUnauthorizedError("invalid or expired token")
	}
	if claims.Subject == "" {
		return "", errs.NewUnauthorizedError("token has no subject")
	}
	return claims.Subject, nil
}
