package session

import (
	"fmt"
	"time"

	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the parts of the session token the dashboards read: who is
// signed in and in which role.
type Claims struct {
	UserID    string
	Email     string
	Role      domain.Role
	ExpiresAt time.Time
}

// ParseClaims decodes the token payload without checking its signature. The
// API verifies tokens; the client only needs to know whose dashboard to show.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("parse session token: %w", err)
	}

	c := Claims{
		UserID: firstString(mc, "id", "userId", "_id", "sub"),
		Email:  firstString(mc, "email"),
		Role:   domain.Role(firstString(mc, "role")),
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

func firstString(mc jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if v, ok := mc[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
