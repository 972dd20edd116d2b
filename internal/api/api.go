package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/service"
)

// parseIDParam parses the :id path segment; a malformed id is reported as
// not found rather than leaking parser details.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "not found"})
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service errors onto the HTTP contract:
// validation failures and relation conflicts are 400 with the message
// verbatim (conflict-as-400 is deliberate), missing resources and missing
// relations are 404, ownership failures are 403.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err),
		errors.Is(err, service.ErrAlreadyFavorited),
		errors.Is(err, service.ErrAlreadyInCart),
		errors.Is(err, service.ErrAlreadySubscribed),
		errors.Is(err, service.ErrSelfSubscribe):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
	case errors.Is(err, service.ErrRecipeNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrNotFavorited),
		errors.Is(err, service.ErrNotInCart),
		errors.Is(err, service.ErrNotSubscribed):
		c.JSON(http.StatusNotFound, gin.H{"errors": err.Error()})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"errors": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "internal server error"})
	}
}
