package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorEnvelope is the wire shape of every failure response.
type ErrorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger := GetLogger()
				logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, gin.H{"error": ErrorEnvelope{
					Code:    "INTERNAL_ERROR",
					Message: "An unexpected error occurred. Please try again later.",
				}})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// httpStatusFor maps an error kind onto an HTTP status code.
func httpStatusFor(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the standardized error envelope for any service error.
func RespondError(c *gin.Context, err error) {
	logger := GetLogger()

	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError("unexpected error", err)
	}
	if appErr.Kind == KindInternal {
		logger.Error(appErr.Message, zap.String("code", appErr.Code))
	} else {
		logger.Warn(appErr.Message, zap.String("code", appErr.Code), zap.String("kind", string(appErr.Kind)))
	}

	c.JSON(httpStatusFor(appErr.Kind), gin.H{"error": ErrorEnvelope{
		Code:    appErr.Code,
		Message: appErr.Message,
		Field:   appErr.Field,
	}})
}

// JSONError sends a standardized JSON error response with an explicit status.
func JSONError(c *gin.Context, status int, code string, message string) {
	logger := GetLogger()
	logger.Warn(message, zap.String("code", code))
	c.JSON(status, gin.H{"error": ErrorEnvelope{Code: code, Message: message}})
}
