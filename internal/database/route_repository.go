package database

import (
	"database/sql"
	"fmt"

	"github.com/travelo/transport-backend/internal/models"
)

// RouteRepository handles database operations for the routes table
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

const routeColumns = `id, origin, destination, vehicle_type, operating_days,
	   departure_time, arrival_time, seats, price, status, amenities,
	   created_at, updated_at`

// GetAll retrieves all routes ordered by origin and destination
func (r *RouteRepository) GetAll() ([]models.Route, error) {
	query := `
		SELECT ` + routeColumns + `
		FROM routes
		ORDER BY origin, destination, departure_time
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch routes: %w", err)
	}
	defer rows.Close()

	return r.scanRoutes(rows)
}

// GetActive retrieves the routes that should produce new trips
func (r *RouteRepository) GetActive() ([]models.Route, error) {
	query := `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE status = 'active'
		ORDER BY origin, destination, departure_time
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active routes: %w", err)
	}
	defer rows.Close()

	return r.scanRoutes(rows)
}

// GetByID retrieves a route by ID
func (r *RouteRepository) GetByID(routeID string) (*models.Route, error) {
	query := `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE id = $1
	`

	route := &models.Route{}
	err := r.db.QueryRow(query, routeID).Scan(
		&route.ID, &route.Origin, &route.Destination, &route.VehicleType, &route.OperatingDays,
		&route.DepartureTime, &route.ArrivalTime, &route.Seats, &route.Price, &route.Status, &route.Amenities,
		&route.CreatedAt, &route.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrRouteNotFound
		}
		return nil, fmt.Errorf("failed to fetch route: %w", err)
	}

	return route, nil
}

// SetStatus flips a route between active and inactive. Deactivating a route
// only suppresses future generation; existing trips are untouched.
func (r *RouteRepository) SetStatus(routeID string, status models.RouteStatus) error {
	query := `
		UPDATE routes
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, routeID, status)
	if err != nil {
		return fmt.Errorf("failed to update route status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrRouteNotFound
	}

	return nil
}

// Delete removes a route and, via the trips.route_id cascade, its remaining
// trip rows. Callers must run the delete guard first.
func (r *RouteRepository) Delete(routeID string) error {
	result, err := r.db.Exec(`DELETE FROM routes WHERE id = $1`, routeID)
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrRouteNotFound
	}

	return nil
}

// scanRoutes scans multiple routes from rows
func (r *RouteRepository) scanRoutes(rows *sql.Rows) ([]models.Route, error) {
	routes := []models.Route{}

	for rows.Next() {
		var route models.Route
		err := rows.Scan(
			&route.ID, &route.Origin, &route.Destination, &route.VehicleType, &route.OperatingDays,
			&route.DepartureTime, &route.ArrivalTime, &route.Seats, &route.Price, &route.Status, &route.Amenities,
			&route.CreatedAt, &route.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}

	return routes, rows.Err()
}
