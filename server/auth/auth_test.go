package auth

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, userID int32, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(int64(userID), 10),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, mutate func(*http.Request)) (*httptest.ResponseRecorder, int32, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	mutate(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID int32
	var authenticated bool
	handler := New(testSecret).Middleware()(func(c echo.Context) error {
		gotUserID, authenticated = UserIDFromContext(c)
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, gotUserID, authenticated
}

func TestMiddlewareBearerToken(t *testing.T) {
	token := signToken(t, testSecret, 42, time.Now().Add(time.Hour))
	rec, userID, ok := doRequest(t, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	require.EqualValues(t, 42, userID)
}

func TestMiddlewareSessionCookie(t *testing.T) {
	token := signToken(t, testSecret, 7, time.Now().Add(time.Hour))
	rec, userID, ok := doRequest(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	require.EqualValues(t, 7, userID)
}

func TestMiddlewareRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*http.Request)
	}{
		{"missing token", func(*http.Request) {}},
		{"expired token", func(req *http.Request) {
			token := signToken(t, testSecret, 1, time.Now().Add(-time.Hour))
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}},
		{"wrong secret", func(req *http.Request) {
			token := signToken(t, "other-secret", 1, time.Now().Add(time.Hour))
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}},
		{"garbage token", func(req *http.Request) {
			req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
		}},
		{"non-numeric subject", func(req *http.Request) {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{Subject: "alice"})
			signed, err := token.SignedString([]byte(testSecret))
			require.NoError(t, err)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, ok := doRequest(t, tt.mutate)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.False(t, ok)
		})
	}
}
