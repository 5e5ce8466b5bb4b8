package store

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the parts of the bearer token the client looks at.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its exp claim. Tokens without
// exp never expire locally.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

var ErrNotJWT = errors.New("token is not a JWT")

// ParseClaims reads sub and exp without verifying the signature; the
// backend stays the only judge of validity.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	var c Claims
	switch sub := mc["sub"].(type) {
	case string:
		c.Subject = sub
	case float64:
		c.Subject = strconv.FormatFloat(sub, 'f', -1, 64)
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}
	if exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
