package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error body. Hint, where present, points the
// caller at a likely fix; stack traces are never exposed.
type ErrorResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

// RespondWithError sends a standardized error response
func RespondWithError(c *gin.Context, statusCode int, message, hint string) {
	c.JSON(statusCode, ErrorResponse{
		Error: message,
		Hint:  hint,
	})
}

// RespondWithBadRequest sends a 400 Bad Request error
func RespondWithBadRequest(c *gin.Context, message, hint string) {
	RespondWithError(c, http.StatusBadRequest, message, hint)
}

// RespondWithUnauthorized sends a 401 Unauthorized error
func RespondWithUnauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, message, "")
}

// RespondWithNotFound sends a 404 Not Found error
func RespondWithNotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, message, "")
}

// RespondWithInternalError sends a 500 Internal Server Error. The upstream
// error text is attached for diagnostics, never swallowed.
func RespondWithInternalError(c *gin.Context, message, hint string) {
	RespondWithError(c, http.StatusInternalServerError, message, hint)
}
