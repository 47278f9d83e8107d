// Package auth provides session-token authentication for the API surface.
// Token issuance lives in the account service; this layer only validates.
package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "studysense.session"

	contextUserIDKey = "auth.user_id"
)

// Authenticator validates session tokens and resolves the calling user.
type Authenticator struct {
	secret []byte
}

// New creates a new authenticator with the signing secret.
func New(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Middleware returns an echo middleware that authenticates the request and
// stores the user id in the request context.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
			}

			userID, err := a.parseUserID(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session token")
			}

			c.Set(contextUserIDKey, userID)
			return next(c)
		}
	}
}

// UserIDFromContext returns the authenticated user id for the request.
func UserIDFromContext(c echo.Context) (int32, bool) {
	userID, ok := c.Get(contextUserIDKey).(int32)
	return userID, ok
}

func (a *Authenticator) parseUserID(tokenString string) (int32, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(userID), nil
}

func extractToken(c echo.Context) string {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return token
		}
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
