package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/travelo/transport-backend/internal/models"
)

// respondError maps domain errors to HTTP status codes. Expected rejections
// (sold out, invalid transition, blocked delete) are conflicts the client can
// act on; an inventory defect is a server fault and reported as one.
func respondError(c *gin.Context, err error) {
	var invalidTransition *models.InvalidTransitionError
	var deleteBlocked *models.DeleteBlockedError

	switch {
	case errors.Is(err, models.ErrTripNotFound), errors.Is(err, models.ErrRouteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrSoldOut):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInventoryDefect):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.As(err, &invalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error":          err.Error(),
			"current_status": invalidTransition.From,
			"target_status":  invalidTransition.To,
		})
	case errors.As(err, &deleteBlocked):
		c.JSON(http.StatusConflict, gin.H{
			"error":          err.Error(),
			"blocking_trips": deleteBlocked.BlockingTrips,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
