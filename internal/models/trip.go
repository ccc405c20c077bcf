package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TripStatus represents the lifecycle status of a trip
type TripStatus string

const (
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusBoarding  TripStatus = "boarding"
	TripStatusDeparted  TripStatus = "departed"
	TripStatusArrived   TripStatus = "arrived"
	TripStatusDelayed   TripStatus = "delayed"
	TripStatusCancelled TripStatus = "cancelled"
)

// IsValid reports whether s is a known trip status.
func (s TripStatus) IsValid() bool {
	switch s {
	case TripStatusScheduled, TripStatusBoarding, TripStatusDeparted,
		TripStatusArrived, TripStatusDelayed, TripStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted out of s.
func (s TripStatus) IsTerminal() bool {
	return s == TripStatusArrived || s == TripStatusCancelled
}

// Trip represents one dated, bookable instance of a route with its own seat
// inventory and lifecycle status. At most one trip exists per
// (route_id, trip_date) pair; the database unique constraint on that pair is
// what makes trip generation idempotent.
//
// Seat invariant at every committed state:
//
//	0 <= booked_seats <= total_seats
//	available_seats + booked_seats == total_seats
type Trip struct {
	ID             string     `json:"trip_id" db:"id"`
	RouteID        string     `json:"route_id" db:"route_id"`
	TripDate       time.Time  `json:"trip_date" db:"trip_date"`
	DepartureAt    time.Time  `json:"departure_datetime" db:"departure_datetime"`
	ArrivalAt      time.Time  `json:"arrival_datetime" db:"arrival_datetime"`
	TotalSeats     int        `json:"total_seats" db:"total_seats"`
	AvailableSeats int        `json:"available_seats" db:"available_seats"`
	BookedSeats    int        `json:"booked_seats" db:"booked_seats"`
	Status         TripStatus `json:"status" db:"status"`
	DelayMinutes   int        `json:"delay_minutes" db:"delay_minutes"`
	PriceOverride  *float64   `json:"price_override,omitempty" db:"price_override"`
	CancelReason   *string    `json:"cancel_reason,omitempty" db:"cancel_reason"`
	Notes          *string    `json:"notes,omitempty" db:"notes"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// NewTripFromRoute builds the trip instance for a route on a calendar date.
// Departure is the route's time-of-day on that date. Arrival lands on the same
// date only when the route's arrival clock is strictly after its departure
// clock; otherwise the service runs overnight and arrival rolls to the next
// day.
func NewTripFromRoute(route *Route, date time.Time) (*Trip, error) {
	depClock, err := ParseClock(route.DepartureTime)
	if err != nil {
		return nil, fmt.Errorf("departure_time: %w", err)
	}
	arrClock, err := ParseClock(route.ArrivalTime)
	if err != nil {
		return nil, fmt.Errorf("arrival_time: %w", err)
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	departure := combine(day, depClock)

	arrivalDay := day
	if !clockAfter(arrClock, depClock) {
		arrivalDay = day.AddDate(0, 0, 1)
	}
	arrival := combine(arrivalDay, arrClock)

	return &Trip{
		ID:             uuid.New().String(),
		RouteID:        route.ID,
		TripDate:       day,
		DepartureAt:    departure,
		ArrivalAt:      arrival,
		TotalSeats:     route.Seats,
		AvailableSeats: route.Seats,
		BookedSeats:    0,
		Status:         TripStatusScheduled,
	}, nil
}

func combine(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, day.Location())
}

func clockAfter(a, b time.Time) bool {
	as := a.Hour()*3600 + a.Minute()*60 + a.Second()
	bs := b.Hour()*3600 + b.Minute()*60 + b.Second()
	return as > bs
}

// EffectivePrice returns the price consumers pay for this trip: the per-trip
// override when set, the route's base price otherwise.
func (t *Trip) EffectivePrice(routePrice float64) float64 {
	if t.PriceOverride != nil {
		return *t.PriceOverride
	}
	return routePrice
}

// SeatInvariantHolds reports whether the seat counts are internally
// consistent.
func (t *Trip) SeatInvariantHolds() bool {
	return t.BookedSeats >= 0 &&
		t.BookedSeats <= t.TotalSeats &&
		t.AvailableSeats+t.BookedSeats == t.TotalSeats
}

// UpdateTripRequest represents an admin edit to a trip. A status change is
// routed through the lifecycle transition validator; the other fields are
// advisory edits applied together with it, all-or-nothing.
type UpdateTripRequest struct {
	Status        *string  `json:"status,omitempty"`
	PriceOverride *float64 `json:"price_override,omitempty"`
	DelayMinutes  *int     `json:"delay_minutes,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	CancelReason  *string  `json:"cancel_reason,omitempty"`
}

// Validate validates the update trip request
func (r *UpdateTripRequest) Validate() error {
	if r.Status != nil && !TripStatus(*r.Status).IsValid() {
		return fmt.Errorf("unknown status %q", *r.Status)
	}
	if r.DelayMinutes != nil && *r.DelayMinutes < 0 {
		return errors.New("delay_minutes must be >= 0")
	}
	if r.PriceOverride != nil && *r.PriceOverride <= 0 {
		return errors.New("price_override must be greater than 0")
	}
	return nil
}

// CancelTripRequest represents the request to cancel a trip
type CancelTripRequest struct {
	CancelReason string `json:"cancel_reason" binding:"required"`
}

// Validate validates the cancel trip request
func (r *CancelTripRequest) Validate() error {
	if strings.TrimSpace(r.CancelReason) == "" {
		return errors.New("cancel_reason must not be empty")
	}
	return nil
}

// GenerateTripsRequest represents the request to trigger trip generation
type GenerateTripsRequest struct {
	WindowDays *int `json:"window_days,omitempty"`
}

// Validate validates the generate trips request
func (r *GenerateTripsRequest) Validate() error {
	if r.WindowDays != nil && *r.WindowDays <= 0 {
		return errors.New("window_days must be greater than 0")
	}
	return nil
}

// SeatCountRequest carries the seat count for reserve/release calls made by
// the booking flow.
type SeatCountRequest struct {
	Seats int `json:"seats" binding:"required,gt=0"`
}
