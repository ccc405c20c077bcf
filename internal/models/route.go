package models

import (
	"errors"
	"fmt"
	"time"
)

// RouteStatus represents whether a route is producing new trips
type RouteStatus string

const (
	RouteStatusActive   RouteStatus = "active"
	RouteStatusInactive RouteStatus = "inactive"
)

// Route represents a recurring transport service template. A route carries the
// weekly schedule and per-instance capacity; dated trip instances are
// materialized from it by the trip generator. Routes are never deleted
// implicitly; an inactive route simply stops producing new trips.
type Route struct {
	ID            string      `json:"route_id" db:"id"`
	Origin        string      `json:"origin" db:"origin"`
	Destination   string      `json:"destination" db:"destination"`
	VehicleType   string      `json:"vehicle_type" db:"vehicle_type"`
	OperatingDays IntArray    `json:"operating_days" db:"operating_days"` // 0=Sunday .. 6=Saturday
	DepartureTime string      `json:"departure_time" db:"departure_time"` // HH:MM or HH:MM:SS
	ArrivalTime   string      `json:"arrival_time" db:"arrival_time"`     // numerically <= departure means next-day arrival
	Seats         int         `json:"seats" db:"seats"`
	Price         float64     `json:"price" db:"price"`
	Status        RouteStatus `json:"status" db:"status"`
	Amenities     StringArray `json:"amenities,omitempty" db:"amenities"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// ParseClock parses a time-of-day string in HH:MM or HH:MM:SS format.
func ParseClock(value string) (time.Time, error) {
	if t, err := time.Parse("15:04:05", value); err == nil {
		return t, nil
	}
	t, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("time-of-day must be in HH:MM or HH:MM:SS format: %q", value)
	}
	return t, nil
}

// Validate checks the route invariants required before trip generation.
func (r *Route) Validate() error {
	if len(r.OperatingDays) == 0 {
		return errors.New("operating_days must not be empty")
	}
	for _, day := range r.OperatingDays {
		if day < 0 || day > 6 {
			return fmt.Errorf("operating_days must contain values between 0 (Sunday) and 6 (Saturday), got %d", day)
		}
	}
	if r.Seats <= 0 {
		return errors.New("seats must be greater than 0")
	}
	if r.Price <= 0 {
		return errors.New("price must be greater than 0")
	}
	if _, err := ParseClock(r.DepartureTime); err != nil {
		return fmt.Errorf("departure_time: %w", err)
	}
	if _, err := ParseClock(r.ArrivalTime); err != nil {
		return fmt.Errorf("arrival_time: %w", err)
	}
	return nil
}

// OperatesOn reports whether the route runs on the given calendar date.
func (r *Route) OperatesOn(date time.Time) bool {
	weekday := int(date.Weekday())
	for _, day := range r.OperatingDays {
		if day == weekday {
			return true
		}
	}
	return false
}

// IsActive reports whether the route should produce new trips.
func (r *Route) IsActive() bool {
	return r.Status == RouteStatusActive
}
