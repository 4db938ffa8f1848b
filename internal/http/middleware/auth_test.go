package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/sitework-backend/internal/platform/ctxutil"
	"github.com/yungbote/sitework-backend/internal/platform/logger"
)

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.Nop(), "secret")

	userID, companyID := uuid.New(), uuid.New()
	valid := signToken(t, "secret", Claims{
		CompanyID: companyID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	expired := signToken(t, "secret", Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	wrongKey := signToken(t, "other", Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()}})
	badSubject := signToken(t, "secret", Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "nobody"}})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"bad subject", "Bearer " + badSubject, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(am.RequireAuth())
			r.GET("/api/me", func(c *gin.Context) {
				rd := ctxutil.GetRequestData(c.Request.Context())
				if rd == nil || rd.UserID != userID || rd.CompanyID == nil || *rd.CompanyID != companyID {
					c.Status(http.StatusTeapot)
					return
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status: got=%d want=%d", rec.Code, tt.want)
			}
		})
	}
}
