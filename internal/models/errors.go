package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the repository and service layers.
var (
	// ErrTripNotFound is returned when a trip does not exist.
	ErrTripNotFound = errors.New("trip not found")

	// ErrRouteNotFound is returned when a route does not exist.
	ErrRouteNotFound = errors.New("route not found")

	// ErrSoldOut is returned when a reservation asks for more seats than a
	// trip has available. The trip is untouched; the caller may retry with a
	// smaller count.
	ErrSoldOut = errors.New("not enough available seats")

	// ErrInventoryDefect is returned when a seat release would push
	// booked_seats below zero. It signals a double release somewhere upstream
	// and is not retryable.
	ErrInventoryDefect = errors.New("seat release exceeds booked seats")
)

// InvalidTransitionError is returned when a trip status change is not
// permitted by the lifecycle transition table.
type InvalidTransitionError struct {
	From TripStatus
	To   TripStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid trip status transition from %q to %q", e.From, e.To)
}

// DeleteBlockedError is returned when a route cannot be deleted because
// future non-cancelled trips still reference it.
type DeleteBlockedError struct {
	RouteID       string
	BlockingTrips int
}

func (e *DeleteBlockedError) Error() string {
	return fmt.Sprintf("route %s has %d upcoming trips; cancel them or deactivate the route instead", e.RouteID, e.BlockingTrips)
}

// InvalidRouteError is reported when the generator skips a route whose
// template fails validation.
type InvalidRouteError struct {
	RouteID string
	Reason  string
}

func (e *InvalidRouteError) Error() string {
	return fmt.Sprintf("route %s is invalid: %s", e.RouteID, e.Reason)
}
