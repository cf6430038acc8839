package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rifat402/courses-app/internal/app/models/dto"
	"github.com/Rifat402/courses-app/internal/pkg/apperrors"
)

// HandleAPIError maps a service error onto a status code and an error body.
// Anything unrecognised becomes a 500 carrying the caller's generic message;
// the error itself is attached to the gin context for the request logger.
func HandleAPIError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, apperrors.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.MsgCourseNotFound))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(err.Error()))
	case errors.Is(err, apperrors.ErrInvalidCourseID):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.MsgInvalidCourseID))
	case errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.MsgInvalidBody))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(fallback))
	}
}

// Recovery turns a panic into a JSON 500 instead of an empty response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.MsgInternalServerErr))
	})
}
