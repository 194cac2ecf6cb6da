package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the informational claims the backend embeds in an access
// token. They are display-only: the token is otherwise treated as opaque,
// and expiry here never drives invalidation. Authorization loss is
// detected reactively on the next failing call.
type TokenClaims struct {
	Subject   string
	UserID    int64
	Actions   []string
	ExpiresAt time.Time
}

// InspectToken decodes token as an unverified JWT. Opaque (non-JWT) tokens
// return an error, which callers should treat as "nothing to display"
// rather than as a failure.
func InspectToken(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	tc := &TokenClaims{}
	if sub, ok := claims["sub"].(string); ok {
		tc.Subject = sub
	}
	if id, ok := claims["userId"].(float64); ok {
		tc.UserID = int64(id)
	}
	if raw, ok := claims["actions"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				tc.Actions = append(tc.Actions, s)
			}
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tc.ExpiresAt = exp.Time
	}
	return tc, nil
}
