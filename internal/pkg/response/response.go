package response

import (
	"github.com/gin-gonic/gin"

	"epool/internal/pkg/apperrors"
)

// Envelope is the shape every endpoint returns: {statusCode, message, data}.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

func Success(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, Envelope{
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
}

func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Envelope{
		StatusCode: statusCode,
		Message:    message,
	})
}

// FromError routes a service error through the taxonomy mapping.
func FromError(c *gin.Context, err error) {
	status, message := apperrors.Resolve(err)
	Error(c, status, message)
}

func AbortError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, Envelope{
		StatusCode: statusCode,
		Message:    message,
	})
}
