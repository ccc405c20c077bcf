package services

import (
	"time"

	"github.com/travelo/transport-backend/internal/models"
)

// RouteStore is the slice of the route repository the services depend on.
type RouteStore interface {
	GetAll() ([]models.Route, error)
	GetActive() ([]models.Route, error)
	GetByID(routeID string) (*models.Route, error)
	SetStatus(routeID string, status models.RouteStatus) error
	Delete(routeID string) error
}

// TripStore is the slice of the trip repository the services depend on.
type TripStore interface {
	CreateIfAbsent(trip *models.Trip) (bool, error)
	GetByID(tripID string) (*models.Trip, error)
	GetByDateRange(startDate, endDate time.Time) ([]models.Trip, error)
	GetByRoute(routeID string) ([]models.Trip, error)
	Update(trip *models.Trip) error
	Cancel(tripID string, reason string) error
	ReserveSeats(tripID string, count int) error
	ReleaseSeats(tripID string, count int) error
	DeleteRetired(cutoff time.Time) (int, error)
	CountBlockingForRoute(routeID string, from time.Time) (int, error)
}
