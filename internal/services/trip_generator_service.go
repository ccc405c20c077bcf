package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/travelo/transport-backend/internal/models"
)

// TripGeneratorService materializes dated trip instances from active route
// templates over a rolling window, and retires stale booking-free trips.
//
// The generator is safe to invoke concurrently: inserts are conditional on the
// (route_id, trip_date) unique constraint, so racing runs converge to the same
// trip set without in-process locking. A run interrupted mid-batch leaves only
// valid trips behind; the next run fills in the rest.
type TripGeneratorService struct {
	routes        RouteStore
	trips         TripStore
	retentionDays int
	log           *logrus.Logger
}

// NewTripGeneratorService creates a new TripGeneratorService
func NewTripGeneratorService(routes RouteStore, trips TripStore, retentionDays int, log *logrus.Logger) *TripGeneratorService {
	return &TripGeneratorService{
		routes:        routes,
		trips:         trips,
		retentionDays: retentionDays,
		log:           log,
	}
}

// GenerationResult aggregates the outcome of one generator run. Per-route
// failures never abort the batch; they are counted and reported here instead.
type GenerationResult struct {
	Created       int      `json:"created"`
	Retired       int      `json:"retired"`
	SkippedRoutes int      `json:"skipped_routes"`
	RouteErrors   []string `json:"route_errors,omitempty"`
}

// Generate materializes missing trips for every active route over the window
// [asOf, asOf+windowDays), then retires booking-free trips older than the
// retention cutoff. The current date is an explicit parameter so the same
// logic runs identically under a wall-clock cron trigger and in tests.
func (s *TripGeneratorService) Generate(asOf time.Time, windowDays int) (*GenerationResult, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("window days must be greater than 0, got %d", windowDays)
	}

	routes, err := s.routes.GetActive()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active routes: %w", err)
	}

	result := &GenerationResult{}
	start := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())

	for i := range routes {
		route := &routes[i]

		if err := route.Validate(); err != nil {
			routeErr := &models.InvalidRouteError{RouteID: route.ID, Reason: err.Error()}
			s.log.WithFields(logrus.Fields{
				"route_id": route.ID,
				"reason":   err.Error(),
			}).Warn("Skipping malformed route")
			result.SkippedRoutes++
			result.RouteErrors = append(result.RouteErrors, routeErr.Error())
			continue
		}

		created, errs := s.generateForRoute(route, start, windowDays)
		result.Created += created
		result.RouteErrors = append(result.RouteErrors, errs...)
	}

	cutoff := start.AddDate(0, 0, -s.retentionDays)
	retired, err := s.trips.DeleteRetired(cutoff)
	if err != nil {
		return result, fmt.Errorf("failed to retire old trips: %w", err)
	}
	result.Retired = retired

	s.log.WithFields(logrus.Fields{
		"created":        result.Created,
		"retired":        result.Retired,
		"skipped_routes": result.SkippedRoutes,
		"window_days":    windowDays,
	}).Info("Trip generation run completed")

	return result, nil
}

// Retire runs the retirement pass alone: booking-free trips dated before
// asOf minus the retention period are removed. Trips with booking history
// survive the cutoff indefinitely.
func (s *TripGeneratorService) Retire(asOf time.Time) (int, error) {
	start := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	cutoff := start.AddDate(0, 0, -s.retentionDays)

	retired, err := s.trips.DeleteRetired(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to retire old trips: %w", err)
	}

	if retired > 0 {
		s.log.WithField("retired", retired).Info("Retired old trips")
	}

	return retired, nil
}

// generateForRoute inserts the missing trips for one route. Each (route, date)
// insert is independent; a failed date is reported and the rest continue.
func (s *TripGeneratorService) generateForRoute(route *models.Route, start time.Time, windowDays int) (int, []string) {
	created := 0
	var errs []string

	for i := 0; i < windowDays; i++ {
		date := start.AddDate(0, 0, i)
		if !route.OperatesOn(date) {
			continue
		}

		trip, err := models.NewTripFromRoute(route, date)
		if err != nil {
			// Validate catches malformed times up front; this guards the race
			// where a route is edited mid-run.
			errs = append(errs, fmt.Sprintf("route %s on %s: %v", route.ID, date.Format("2006-01-02"), err))
			break
		}

		inserted, err := s.trips.CreateIfAbsent(trip)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"route_id":  route.ID,
				"trip_date": date.Format("2006-01-02"),
			}).WithError(err).Error("Failed to create trip")
			errs = append(errs, fmt.Sprintf("route %s on %s: %v", route.ID, date.Format("2006-01-02"), err))
			continue
		}
		if inserted {
			created++
		}
	}

	return created, errs
}
