package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sitework-backend/internal/platform/apierr"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"api error", apierr.NotFound("specification_not_found", errors.New("not found")), http.StatusNotFound, "specification_not_found"},
		{"wrapped api error", errors.Join(errors.New("outer"), apierr.BadRequest("invalid_context", errors.New("bad"))), http.StatusBadRequest, "invalid_context"},
		{"api error without code", apierr.New(http.StatusConflict, "", errors.New("dup")), http.StatusConflict, "fallback"},
		{"plain error", errors.New("db down"), http.StatusInternalServerError, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			RespondServiceError(c, "fallback", tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got=%d want=%d", rec.Code, tt.wantStatus)
			}
			var env ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tt.wantCode || env.Error.Message == "" {
				t.Fatalf("unexpected envelope: %+v", env)
			}
		})
	}
}
