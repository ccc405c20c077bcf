package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/travelo/transport-backend/internal/models"
)

// tripTransitions lists the permitted lifecycle edges. The primary progression
// is scheduled -> boarding -> departed -> arrived. Any non-terminal status may
// move to delayed or cancelled; leaving delayed requires an explicit
// re-assignment to a progression status. arrived and cancelled are terminal.
var tripTransitions = map[models.TripStatus][]models.TripStatus{
	models.TripStatusScheduled: {models.TripStatusBoarding, models.TripStatusDelayed, models.TripStatusCancelled},
	models.TripStatusBoarding:  {models.TripStatusDeparted, models.TripStatusDelayed, models.TripStatusCancelled},
	models.TripStatusDeparted:  {models.TripStatusArrived, models.TripStatusDelayed, models.TripStatusCancelled},
	models.TripStatusDelayed:   {models.TripStatusScheduled, models.TripStatusBoarding, models.TripStatusDeparted, models.TripStatusCancelled},
	models.TripStatusArrived:   {},
	models.TripStatusCancelled: {},
}

// CanTransition reports whether a trip may move from one status to another.
func CanTransition(from, to models.TripStatus) bool {
	for _, allowed := range tripTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TripLifecycleService owns the status field of a trip and validates every
// transition. It also enforces the route deletion guard, since whether a
// route may be deleted depends on the lifecycle state of its trips.
type TripLifecycleService struct {
	trips  TripStore
	routes RouteStore
	log    *logrus.Logger
}

// NewTripLifecycleService creates a new TripLifecycleService
func NewTripLifecycleService(trips TripStore, routes RouteStore, log *logrus.Logger) *TripLifecycleService {
	return &TripLifecycleService{
		trips:  trips,
		routes: routes,
		log:    log,
	}
}

// UpdateTrip applies an admin edit to a trip all-or-nothing. A requested
// status change is checked against the transition table first; cancellation
// through this path requires a cancel reason, same as Cancel.
func (s *TripLifecycleService) UpdateTrip(tripID string, req *models.UpdateTripRequest) (*models.Trip, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return nil, err
	}

	if trip.Status.IsTerminal() {
		if req.Status != nil && models.TripStatus(*req.Status) != trip.Status {
			return nil, &models.InvalidTransitionError{From: trip.Status, To: models.TripStatus(*req.Status)}
		}
		return nil, fmt.Errorf("cannot edit a trip in terminal status %q", trip.Status)
	}

	if req.Status != nil {
		target := models.TripStatus(*req.Status)
		if target != trip.Status {
			if !CanTransition(trip.Status, target) {
				return nil, &models.InvalidTransitionError{From: trip.Status, To: target}
			}
			if target == models.TripStatusCancelled {
				if req.CancelReason == nil || *req.CancelReason == "" {
					return nil, fmt.Errorf("cancel_reason is required when cancelling a trip")
				}
				if err := s.trips.Cancel(tripID, *req.CancelReason); err != nil {
					return nil, err
				}
				return s.trips.GetByID(tripID)
			}
			trip.Status = target
		}
	}

	if req.DelayMinutes != nil {
		trip.DelayMinutes = *req.DelayMinutes
	}
	if req.PriceOverride != nil {
		trip.PriceOverride = req.PriceOverride
	}
	if req.Notes != nil {
		trip.Notes = req.Notes
	}

	if err := s.trips.Update(trip); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"trip_id": trip.ID,
		"status":  trip.Status,
	}).Info("Trip updated")

	return trip, nil
}

// Cancel cancels a trip with a mandatory reason. Only non-terminal trips may
// be cancelled. Seat counts are frozen as a historical record: releasing
// seats back is the booking-refund flow's job, because a trip cancellation
// and a booking cancellation are distinct events.
func (s *TripLifecycleService) Cancel(tripID string, req *models.CancelTripRequest) (*models.Trip, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(trip.Status, models.TripStatusCancelled) {
		return nil, &models.InvalidTransitionError{From: trip.Status, To: models.TripStatusCancelled}
	}

	if err := s.trips.Cancel(tripID, req.CancelReason); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"trip_id": tripID,
		"reason":  req.CancelReason,
	}).Info("Trip cancelled")

	return s.trips.GetByID(tripID)
}

// DeleteRoute deletes a route unless future non-cancelled trips still depend
// on it. On guard failure the error carries the blocking count so the caller
// can offer "set inactive" as the alternative.
func (s *TripLifecycleService) DeleteRoute(routeID string, today time.Time) error {
	if _, err := s.routes.GetByID(routeID); err != nil {
		return err
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	blocking, err := s.trips.CountBlockingForRoute(routeID, day)
	if err != nil {
		return err
	}
	if blocking > 0 {
		return &models.DeleteBlockedError{RouteID: routeID, BlockingTrips: blocking}
	}

	if err := s.routes.Delete(routeID); err != nil {
		return err
	}

	s.log.WithField("route_id", routeID).Info("Route deleted")
	return nil
}

// SetRouteStatus activates or deactivates a route. Deactivation only stops
// future trip generation; existing trips keep running.
func (s *TripLifecycleService) SetRouteStatus(routeID string, status models.RouteStatus) error {
	if status != models.RouteStatusActive && status != models.RouteStatusInactive {
		return fmt.Errorf("unknown route status %q", status)
	}
	return s.routes.SetStatus(routeID, status)
}
