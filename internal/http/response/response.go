package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sitework-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError uses the status and code carried by an apierr.Error and
// falls back to status 500 with fallbackCode.
func RespondServiceError(c *gin.Context, fallbackCode string, err error) {
	status, code := apierr.Lookup(err, fallbackCode)
	RespondError(c, status, code, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
