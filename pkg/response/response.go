package response

import (
	"net/http"

	"anoa.com/recipemarket/pkg/apperror"
	"anoa.com/recipemarket/pkg/logger"
	"anoa.com/recipemarket/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.Unauthorized("authorization required")
	}

	str, ok := userIDStr.(string)
	if !ok {
		return uuid.Nil, apperror.Unauthorized("invalid user id")
	}

	userID, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("invalid user id")
	}

	return userID, nil
}

// ParseUUIDParam reads a path parameter as a UUID.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.Validation(name + " must be a valid uuid")
	}
	return id, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code >= http.StatusInternalServerError {
		logger.Ctx(c.Request.Context()).Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
	}

	c.JSON(code, gin.H{
		"error":   apperror.KindOf(err),
		"message": apperror.PublicMessage(err),
	})
}

// BindError reports a request binding failure as a validation error.
func BindError(c *gin.Context, err error) {
	ResponseError(c, apperror.Validation(validator.FormatValidationError(err)))
}
