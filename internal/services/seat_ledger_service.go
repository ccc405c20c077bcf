package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/travelo/transport-backend/internal/models"
)

// SeatLedgerService owns the seat-count invariant on each trip. Reserve and
// Release delegate to a single conditional update per call, so every pair of
// calls on the same trip is linearizable at the database row; calls on
// different trips proceed fully in parallel. Overbooked demand is rejected
// immediately, never queued.
type SeatLedgerService struct {
	trips TripStore
	log   *logrus.Logger
}

// NewSeatLedgerService creates a new SeatLedgerService
func NewSeatLedgerService(trips TripStore, log *logrus.Logger) *SeatLedgerService {
	return &SeatLedgerService{
		trips: trips,
		log:   log,
	}
}

// Reserve atomically books count seats on a trip. Returns ErrSoldOut without
// mutating anything when fewer than count seats are available, and
// ErrTripNotFound when the trip does not exist.
func (s *SeatLedgerService) Reserve(tripID string, count int) error {
	if count <= 0 {
		return fmt.Errorf("seat count must be greater than 0, got %d", count)
	}

	if err := s.trips.ReserveSeats(tripID, count); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"trip_id": tripID,
		"seats":   count,
	}).Info("Seats reserved")

	return nil
}

// Release atomically returns count previously booked seats on a trip. A
// release that would breach the seat invariant means some caller
// double-released. That is a non-retryable internal consistency fault and is
// logged loudly rather than clamped.
func (s *SeatLedgerService) Release(tripID string, count int) error {
	if count <= 0 {
		return fmt.Errorf("seat count must be greater than 0, got %d", count)
	}

	if err := s.trips.ReleaseSeats(tripID, count); err != nil {
		if errors.Is(err, models.ErrInventoryDefect) {
			s.log.WithFields(logrus.Fields{
				"trip_id": tripID,
				"seats":   count,
			}).Error("Seat release would breach the seat invariant; refusing")
		}
		return err
	}

	s.log.WithFields(logrus.Fields{
		"trip_id": tripID,
		"seats":   count,
	}).Info("Seats released")

	return nil
}
