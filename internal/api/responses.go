package api

import (
	"errors"
	"net/http"

	"gymclass/internal/apperror"
	"gymclass/internal/logger"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Class booked successfully"`
	Data    any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success      bool   `json:"success" example:"false"`
	Message      string `json:"message" example:"Schedule not found."`
	ErrorDetails any    `json:"errorDetails,omitempty"`
}

type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// Fail renders err as the error envelope. Errors that are not *apperror.Error
// are logged and reported as a generic 500.
func Fail(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		logger.WithError(err).Error("unhandled error",
			"method", c.Request.Method,
			"path", c.FullPath(),
		)
		appErr = apperror.Internal("Internal server error", err)
	} else if appErr.Kind == apperror.KindInternal {
		logger.WithError(appErr.Err).Error(appErr.Message,
			"method", c.Request.Method,
			"path", c.FullPath(),
		)
	}

	c.AbortWithStatusJSON(appErr.Status, ErrorResponse{
		Success:      false,
		Message:      appErr.Message,
		ErrorDetails: string(appErr.Kind),
	})
}

// FailWithDetails is used for request validation, where details lists the offending fields.
func FailWithDetails(c *gin.Context, status int, message string, details any) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success:      false,
		Message:      message,
		ErrorDetails: details,
	})
}
