package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campustrace-backend-go/internal/core"
	"campustrace-backend-go/internal/db"
)

const internalErrorMessage = "An unexpected internal server error occurred."

// mapServiceError maps errors from the core services to HTTP status codes and ErrorResponse.
// Store permission failures are logged with their operation and target; the
// client only sees the generic message.
func mapServiceError(c *gin.Context, log *zap.Logger, err error) {
	var statusCode int
	var errResponse ErrorResponse
	var permErr *db.PermissionError

	switch {
	case errors.Is(err, core.ErrItemNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrItemNotFound.Error()}
	case errors.Is(err, core.ErrUserNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrUserNotFound.Error()}
	case errors.Is(err, core.ErrForbidden):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrForbidden.Error()}
	case errors.Is(err, core.ErrValidation):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrValidation.Error(), Details: err.Error()}
	case errors.Is(err, core.ErrEmailTaken):
		statusCode = http.StatusConflict
		errResponse = ErrorResponse{Error: core.ErrEmailTaken.Error()}
	case errors.Is(err, core.ErrAuthUnavailable):
		statusCode = http.StatusServiceUnavailable
		errResponse = ErrorResponse{Error: core.ErrAuthUnavailable.Error()}
	case errors.As(err, &permErr):
		log.Error("Store denied operation",
			zap.String("op", permErr.Op),
			zap.String("target", permErr.Target),
			zap.String("path", c.FullPath()),
			zap.Error(permErr.Err))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: internalErrorMessage}
	default:
		log.Error("Internal Server Error", zap.String("path", c.FullPath()), zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: internalErrorMessage}
	}
	c.JSON(statusCode, errResponse)
}
