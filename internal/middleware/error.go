package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "kapital/internal/errors"
	"kapital/internal/logger"
)

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into consistent JSON error responses. AppErrors are returned with
// their code and message; unexpected errors are logged and return a generic
// internal error to avoid leaking details. When the logging middleware is
// installed, the request ID is echoed in the envelope so clients can quote
// it in support requests.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		err := c.Errors.Last().Err
		requestID := RequestID(c)

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("app error",
					"request_id", requestID,
					"code", appErr.Code,
					"message", appErr.Message,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
				)
			}
			c.JSON(appErr.StatusCode, gin.H{
				"error": errorBody(appErr.Code, appErr.Message, requestID),
			})
			return
		}

		// Unexpected error: log full details, return generic message
		logger.Get().Errorw("unexpected error",
			"request_id", requestID,
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
			"error": errorBody(apperrors.ErrInternalServer.Code, apperrors.ErrInternalServer.Message, requestID),
		})
	}
}

func errorBody(code, message, requestID string) gin.H {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if requestID != "" {
		body["request_id"] = requestID
	}
	return body
}
