package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Message string `json:"error"`
	Code    string `json:"error_code"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

// Failure is HTTPError for endpoints that also report success.
type Failure struct {
	Success bool `json:"success"`
	HTTPError
}

func WriteFailure(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Failure{
		HTTPError: HTTPError{Code: code, Message: message},
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Internal never carries backend detail; callers log the cause first.
func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}
