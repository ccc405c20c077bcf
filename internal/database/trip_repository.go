package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/travelo/transport-backend/internal/models"
)

// TripRepository handles database operations for the trips table
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `id, route_id, trip_date, departure_datetime, arrival_datetime,
	   total_seats, available_seats, booked_seats, status, delay_minutes,
	   price_override, cancel_reason, notes, cancelled_at, created_at, updated_at`

// CreateIfAbsent inserts a trip unless one already exists for the same
// (route_id, trip_date) pair, in any status. The unique constraint makes the
// insert a no-op on conflict, so concurrent or repeated generator runs
// converge to the same trip set. Returns whether a row was actually created.
func (r *TripRepository) CreateIfAbsent(trip *models.Trip) (bool, error) {
	query := `
		INSERT INTO trips (
			id, route_id, trip_date, departure_datetime, arrival_datetime,
			total_seats, available_seats, booked_seats, status, delay_minutes,
			price_override, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (route_id, trip_date) DO NOTHING
	`

	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}

	result, err := r.db.Exec(
		query,
		trip.ID, trip.RouteID, trip.TripDate, trip.DepartureAt, trip.ArrivalAt,
		trip.TotalSeats, trip.AvailableSeats, trip.BookedSeats, trip.Status, trip.DelayMinutes,
		trip.PriceOverride, trip.Notes,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create trip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// GetByID retrieves a trip by ID
func (r *TripRepository) GetByID(tripID string) (*models.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE id = $1
	`

	trip, err := r.scanTrip(r.db.QueryRow(query, tripID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to fetch trip: %w", err)
	}

	return trip, nil
}

// GetByDateRange retrieves trips within a date range
func (r *TripRepository) GetByDateRange(startDate, endDate time.Time) ([]models.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE trip_date BETWEEN $1 AND $2
		ORDER BY trip_date, departure_datetime
	`

	rows, err := r.db.Query(query, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trips: %w", err)
	}
	defer rows.Close()

	return r.scanTrips(rows)
}

// GetByRoute retrieves all trips for a route
func (r *TripRepository) GetByRoute(routeID string) ([]models.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE route_id = $1
		ORDER BY trip_date, departure_datetime
	`

	rows, err := r.db.Query(query, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trips: %w", err)
	}
	defer rows.Close()

	return r.scanTrips(rows)
}

// Update writes the mutable admin-owned fields of a trip
func (r *TripRepository) Update(trip *models.Trip) error {
	query := `
		UPDATE trips
		SET status = $2, delay_minutes = $3, price_override = $4,
			cancel_reason = $5, notes = $6, cancelled_at = $7,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(
		query,
		trip.ID, trip.Status, trip.DelayMinutes, trip.PriceOverride,
		trip.CancelReason, trip.Notes, trip.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrTripNotFound
	}

	return nil
}

// Cancel marks a trip as cancelled with the given reason. The status guard in
// the WHERE clause keeps a racing cancel from resurrecting a terminal trip.
// Seat counts are deliberately left untouched as a historical record.
func (r *TripRepository) Cancel(tripID string, reason string) error {
	query := `
		UPDATE trips
		SET status = 'cancelled',
			cancel_reason = $2,
			cancelled_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('arrived', 'cancelled')
	`

	result, err := r.db.Exec(query, tripID, reason)
	if err != nil {
		return fmt.Errorf("failed to cancel trip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		exists, err := r.exists(tripID)
		if err != nil {
			return err
		}
		if !exists {
			return models.ErrTripNotFound
		}
		return fmt.Errorf("trip %s is already in a terminal status", tripID)
	}

	return nil
}

// ReserveSeats atomically moves count seats from available to booked. The
// availability check and the decrement happen in a single conditional update,
// so concurrent reservations on the same trip can never oversell it.
func (r *TripRepository) ReserveSeats(tripID string, count int) error {
	query := `
		UPDATE trips
		SET available_seats = available_seats - $2,
			booked_seats = booked_seats + $2,
			updated_at = NOW()
		WHERE id = $1 AND available_seats >= $2
	`

	result, err := r.db.Exec(query, tripID, count)
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		exists, err := r.exists(tripID)
		if err != nil {
			return err
		}
		if !exists {
			return models.ErrTripNotFound
		}
		return models.ErrSoldOut
	}

	return nil
}

// ReleaseSeats atomically moves count seats from booked back to available.
// A release that would push booked_seats negative indicates a bookkeeping bug
// elsewhere and is surfaced as ErrInventoryDefect, never clamped.
func (r *TripRepository) ReleaseSeats(tripID string, count int) error {
	query := `
		UPDATE trips
		SET available_seats = available_seats + $2,
			booked_seats = booked_seats - $2,
			updated_at = NOW()
		WHERE id = $1 AND booked_seats >= $2
	`

	result, err := r.db.Exec(query, tripID, count)
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		exists, err := r.exists(tripID)
		if err != nil {
			return err
		}
		if !exists {
			return models.ErrTripNotFound
		}
		return models.ErrInventoryDefect
	}

	return nil
}

// DeleteRetired removes booking-free trips older than the cutoff date. Trips
// with any booking history are retained indefinitely for audit purposes.
func (r *TripRepository) DeleteRetired(cutoff time.Time) (int, error) {
	query := `
		DELETE FROM trips
		WHERE trip_date < $1 AND booked_seats = 0
	`

	result, err := r.db.Exec(query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to retire old trips: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rows), nil
}

// CountBlockingForRoute counts the trips that block route deletion: dated
// today or later and not cancelled.
func (r *TripRepository) CountBlockingForRoute(routeID string, from time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM trips
		WHERE route_id = $1 AND trip_date >= $2 AND status <> 'cancelled'
	`

	var count int
	if err := r.db.QueryRow(query, routeID, from).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count blocking trips: %w", err)
	}

	return count, nil
}

func (r *TripRepository) exists(tripID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1)`, tripID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check trip existence: %w", err)
	}
	return exists, nil
}

// scanTrip scans a single trip
func (r *TripRepository) scanTrip(row scanner) (*models.Trip, error) {
	trip := &models.Trip{}
	var priceOverride sql.NullFloat64
	var cancelReason sql.NullString
	var notes sql.NullString
	var cancelledAt sql.NullTime

	err := row.Scan(
		&trip.ID, &trip.RouteID, &trip.TripDate, &trip.DepartureAt, &trip.ArrivalAt,
		&trip.TotalSeats, &trip.AvailableSeats, &trip.BookedSeats, &trip.Status, &trip.DelayMinutes,
		&priceOverride, &cancelReason, &notes, &cancelledAt, &trip.CreatedAt, &trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if priceOverride.Valid {
		trip.PriceOverride = &priceOverride.Float64
	}
	if cancelReason.Valid {
		trip.CancelReason = &cancelReason.String
	}
	if notes.Valid {
		trip.Notes = &notes.String
	}
	if cancelledAt.Valid {
		trip.CancelledAt = &cancelledAt.Time
	}

	return trip, nil
}

// scanTrips scans multiple trips from rows
func (r *TripRepository) scanTrips(rows *sql.Rows) ([]models.Trip, error) {
	trips := []models.Trip{}

	for rows.Next() {
		trip, err := r.scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *trip)
	}

	return trips, rows.Err()
}

// scanner interface for QueryRow and Rows
type scanner interface {
	Scan(dest ...interface{}) error
}
