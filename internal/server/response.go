package server

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/lessonforge/internal/lesson"
)

// APIError is the body of every error response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`

	// Set for lesson-level generation failures.
	Section        lesson.Kind   `json:"section,omitempty"`
	Classification string        `json:"classification,omitempty"`
	Completed      []lesson.Kind `json:"completed,omitempty"`
	Field          string        `json:"field,omitempty"`
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, e APIError) {
	c.AbortWithStatusJSON(status, errorEnvelope{Error: e})
}
