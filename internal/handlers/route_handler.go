package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/travelo/transport-backend/internal/models"
	"github.com/travelo/transport-backend/internal/services"
)

// RouteHandler exposes the route catalog surface this subsystem owns: read
// access, the active/inactive flag, and guarded deletion. Route creation and
// editing belong to the generic admin CRUD outside this service.
type RouteHandler struct {
	routes       services.RouteStore
	trips        services.TripStore
	lifecycleSvc *services.TripLifecycleService
}

// NewRouteHandler creates a new RouteHandler
func NewRouteHandler(routes services.RouteStore, trips services.TripStore, lifecycleSvc *services.TripLifecycleService) *RouteHandler {
	return &RouteHandler{
		routes:       routes,
		trips:        trips,
		lifecycleSvc: lifecycleSvc,
	}
}

// ListRoutes retrieves all routes
// GET /api/v1/routes
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	routes, err := h.routes.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"routes": routes,
		"count":  len(routes),
	})
}

// GetRouteByID retrieves a route by ID
// GET /api/v1/routes/:id
func (h *RouteHandler) GetRouteByID(c *gin.Context) {
	route, err := h.routes.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, route)
}

// GetTripsByRoute retrieves all trips generated from a route
// GET /api/v1/routes/:id/trips
func (h *RouteHandler) GetTripsByRoute(c *gin.Context) {
	if _, err := h.routes.GetByID(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	trips, err := h.trips.GetByRoute(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": trips,
		"count": len(trips),
	})
}

// ActivateRoute resumes trip generation for a route
// POST /api/v1/routes/:id/activate
func (h *RouteHandler) ActivateRoute(c *gin.Context) {
	if err := h.lifecycleSvc.SetRouteStatus(c.Param("id"), models.RouteStatusActive); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Route activated"})
}

// DeactivateRoute stops a route from producing new trips. Existing trips are
// not altered.
// POST /api/v1/routes/:id/deactivate
func (h *RouteHandler) DeactivateRoute(c *gin.Context) {
	if err := h.lifecycleSvc.SetRouteStatus(c.Param("id"), models.RouteStatusInactive); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Route deactivated"})
}

// DeleteRoute deletes a route unless future non-cancelled trips block it
// DELETE /api/v1/routes/:id
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	if err := h.lifecycleSvc.DeleteRoute(c.Param("id"), time.Now()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Route deleted"})
}
