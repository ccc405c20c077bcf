package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/travelo/transport-backend/internal/models"
	"github.com/travelo/transport-backend/internal/services"
)

// TripHandler exposes the trip scheduling subsystem over HTTP: generator
// trigger, trip listings, lifecycle edits, and the seat ledger contract
// consumed by the booking flow.
type TripHandler struct {
	trips             services.TripStore
	routes            services.RouteStore
	generatorSvc      *services.TripGeneratorService
	lifecycleSvc      *services.TripLifecycleService
	ledgerSvc         *services.SeatLedgerService
	cronSvc           *services.CronService
	defaultWindowDays int
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(
	trips services.TripStore,
	routes services.RouteStore,
	generatorSvc *services.TripGeneratorService,
	lifecycleSvc *services.TripLifecycleService,
	ledgerSvc *services.SeatLedgerService,
	cronSvc *services.CronService,
	defaultWindowDays int,
) *TripHandler {
	return &TripHandler{
		trips:             trips,
		routes:            routes,
		generatorSvc:      generatorSvc,
		lifecycleSvc:      lifecycleSvc,
		ledgerSvc:         ledgerSvc,
		cronSvc:           cronSvc,
		defaultWindowDays: defaultWindowDays,
	}
}

// TripResponse is a trip together with its effective price, which depends on
// the route's base price unless the trip carries an override.
type TripResponse struct {
	models.Trip
	EffectivePrice float64 `json:"effective_price"`
}

// GenerateTrips triggers a generator run over the requested window.
// POST /api/v1/admin/generate-trips
func (h *TripHandler) GenerateTrips(c *gin.Context) {
	var req models.GenerateTripsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	windowDays := h.defaultWindowDays
	if req.WindowDays != nil {
		windowDays = *req.WindowDays
	}

	result, err := h.generatorSvc.Generate(time.Now(), windowDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerationStatus reports the scheduled generation jobs.
// GET /api/v1/admin/generation-status
func (h *TripHandler) GenerationStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.cronSvc.GetJobStatus())
}

// GetTripsByDateRange retrieves trips within a date range
// GET /api/v1/trips?start_date=2026-01-01&end_date=2026-01-31
func (h *TripHandler) GetTripsByDateRange(c *gin.Context) {
	startDateStr := c.Query("start_date")
	endDateStr := c.Query("end_date")

	if startDateStr == "" || endDateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date are required"})
		return
	}

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date format. Use YYYY-MM-DD"})
		return
	}

	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date format. Use YYYY-MM-DD"})
		return
	}

	trips, err := h.trips.GetByDateRange(startDate, endDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": trips,
		"count": len(trips),
	})
}

// GetTripByID retrieves a single trip with its effective price
// GET /api/v1/trips/:id
func (h *TripHandler) GetTripByID(c *gin.Context) {
	trip, err := h.trips.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	route, err := h.routes.GetByID(trip.RouteID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TripResponse{
		Trip:           *trip,
		EffectivePrice: trip.EffectivePrice(route.Price),
	})
}

// UpdateTrip applies an admin edit routed through the lifecycle validator
// PATCH /api/v1/trips/:id
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	var req models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.lifecycleSvc.UpdateTrip(c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// CancelTrip cancels a trip with a mandatory reason
// POST /api/v1/trips/:id/cancel
func (h *TripHandler) CancelTrip(c *gin.Context) {
	var req models.CancelTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cancel_reason is required"})
		return
	}

	trip, err := h.lifecycleSvc.Cancel(c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// ReserveSeats atomically reserves seats on a trip for the booking flow
// POST /api/v1/trips/:id/reserve-seats
func (h *TripHandler) ReserveSeats(c *gin.Context) {
	var req models.SeatCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seats must be a positive integer"})
		return
	}

	if err := h.ledgerSvc.Reserve(c.Param("id"), req.Seats); err != nil {
		respondError(c, err)
		return
	}

	trip, err := h.trips.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// ReleaseSeats atomically releases previously booked seats on a trip
// POST /api/v1/trips/:id/release-seats
func (h *TripHandler) ReleaseSeats(c *gin.Context) {
	var req models.SeatCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seats must be a positive integer"})
		return
	}

	if err := h.ledgerSvc.Release(c.Param("id"), req.Seats); err != nil {
		respondError(c, err)
		return
	}

	trip, err := h.trips.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}
