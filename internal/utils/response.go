// internal/utils/response.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/chemist-backend/internal/apperror"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

type ErrorBody struct {
	Error     string      `json:"error"`
	Code      string      `json:"code"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, ErrorBody{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: GetRequestID(c),
	})
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

// HandleError writes the envelope for err. Internal failures are logged with
// their cause and reported to the client with a generic message.
func HandleError(c *gin.Context, err error) {
	status, code := apperror.Status(err)

	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"request_id": GetRequestID(c),
		}).Error("Request failed")
		ErrorResponse(c, status, code, "Internal server error", nil)
		return
	}

	var details interface{}
	var validationErr *apperror.ValidationError
	if errors.As(err, &validationErr) && len(validationErr.Fields) > 0 {
		details = validationErr.Fields
	}

	ErrorResponse(c, status, code, err.Error(), details)
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
