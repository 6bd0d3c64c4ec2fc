package middleware

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/fleetflow/fleet-api/internal/api/apierr"
	"github.com/fleetflow/fleet-api/internal/api/metrics"
	"github.com/fleetflow/fleet-api/internal/core/domain"
)

const identityKey = "identity"

// Session data keys written at login and read back for cookie clients.
const (
	SessionUserID = "userId"
	SessionEmail  = "email"
	SessionName   = "name"
	SessionRole   = "role"
)

// Authenticate verifies the caller's credential and injects the resulting
// identity into the request context. A bearer token is checked first; when
// no Authorization header is present, a signed session cookie carrying an
// identity is accepted instead. This is a route-level guard, not a global
// stage: only protected routes mount it.
func Authenticate(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				if identity := identityFromSession(c); identity != nil {
					c.Set(identityKey, identity)
					return next(c)
				}
				metrics.AuthFailuresTotal.WithLabelValues("missing").Inc()
				return apierr.Unauthorized("Missing Authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthFailuresTotal.WithLabelValues("malformed").Inc()
				return apierr.Unauthorized("Invalid Authorization header")
			}

			identity, err := verifyToken(parts[1], jwtSecret)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				return apierr.TokenInvalid("Invalid or expired token")
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity attached by Authenticate, or nil.
func IdentityFrom(c echo.Context) *domain.Identity {
	identity, _ := c.Get(identityKey).(*domain.Identity)
	return identity
}

func verifyToken(token, secret string) (*domain.Identity, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	roleClaim, _ := claims["role"].(string)
	role, err := domain.ParseRole(roleClaim)
	if err != nil {
		return nil, err
	}

	identity := &domain.Identity{
		Subject: stringClaim(claims, "sub"),
		Email:   stringClaim(claims, "email"),
		Name:    stringClaim(claims, "name"),
		Role:    role,
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		identity.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		identity.ExpiresAt = exp.Time
	}
	return identity, nil
}

// identityFromSession rebuilds an identity for cookie-based clients.
func identityFromSession(c echo.Context) *domain.Identity {
	sess := SessionFrom(c)
	if sess == nil {
		return nil
	}
	userID, ok := sess.Get(SessionUserID)
	if !ok || userID == "" {
		return nil
	}
	roleValue, _ := sess.Get(SessionRole)
	role, err := domain.ParseRole(roleValue)
	if err != nil {
		return nil
	}

	email, _ := sess.Get(SessionEmail)
	name, _ := sess.Get(SessionName)
	return &domain.Identity{
		Subject:  userID,
		Email:    email,
		Name:     name,
		Role:     role,
		IssuedAt: time.Now(),
	}
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
