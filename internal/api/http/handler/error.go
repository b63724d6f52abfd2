package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alumnihub/membership-server/internal/model"
)

func handleError(c *gin.Context, err error) {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": vErr.Causes})
		return
	}

	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": model.ErrInvalidCredentials.Error()})
	case errors.Is(err, model.ErrAccountNotActive):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": model.ErrAccountNotActive.Error()})
	case errors.Is(err, model.ErrNotAuthorized):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": model.ErrNotAuthorized.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": model.ErrNotFound.Error()})
	case errors.Is(err, model.ErrTokenNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": model.ErrTokenNotFound.Error()})
	case errors.Is(err, model.ErrTokenExpired):
		c.AbortWithStatusJSON(http.StatusGone, gin.H{"error": model.ErrTokenExpired.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
