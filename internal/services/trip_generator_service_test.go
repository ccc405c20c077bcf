package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travelo/transport-backend/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func weekdayRoute(id string) models.Route {
	return models.Route{
		ID:            id,
		Origin:        "Colombo",
		Destination:   "Kandy",
		VehicleType:   "bus",
		OperatingDays: models.IntArray{1, 2, 3, 4, 5},
		DepartureTime: "08:30",
		ArrivalTime:   "12:00",
		Seats:         40,
		Price:         1500,
		Status:        models.RouteStatusActive,
	}
}

func TestGenerate(t *testing.T) {
	// 2026-01-03 is a Saturday; a 7-day window from it covers Sat..Fri,
	// which holds exactly five weekdays.
	saturday := time.Date(2026, 1, 3, 14, 25, 0, 0, time.UTC)

	t.Run("Creates Trips On Operating Days Only", func(t *testing.T) {
		routes := newFakeRouteStore(weekdayRoute("route-1"))
		trips := newFakeTripStore()
		svc := NewTripGeneratorService(routes, trips, 30, testLogger())

		result, err := svc.Generate(saturday, 7)
		require.NoError(t, err)
		assert.Equal(t, 5, result.Created)
		assert.Equal(t, 0, result.SkippedRoutes)
		assert.Empty(t, result.RouteErrors)

		generated, err := trips.GetByRoute("route-1")
		require.NoError(t, err)
		require.Len(t, generated, 5)
		for _, trip := range generated {
			weekday := int(trip.TripDate.Weekday())
			assert.GreaterOrEqual(t, weekday, 1)
			assert.LessOrEqual(t, weekday, 5)
			assert.Equal(t, models.TripStatusScheduled, trip.Status)
			assert.Equal(t, 40, trip.TotalSeats)
			assert.Equal(t, 40, trip.AvailableSeats)
			assert.Equal(t, 0, trip.BookedSeats)
			assert.True(t, trip.SeatInvariantHolds())
		}
	})

	t.Run("Rerun Is Idempotent", func(t *testing.T) {
		routes := newFakeRouteStore(weekdayRoute("route-1"))
		trips := newFakeTripStore()
		svc := NewTripGeneratorService(routes, trips, 30, testLogger())

		first, err := svc.Generate(saturday, 7)
		require.NoError(t, err)
		assert.Equal(t, 5, first.Created)

		second, err := svc.Generate(saturday, 7)
		require.NoError(t, err)
		assert.Equal(t, 0, second.Created)

		generated, err := trips.GetByRoute("route-1")
		require.NoError(t, err)
		assert.Len(t, generated, 5)
	})

	t.Run("Widened Window Backfills Missing Dates", func(t *testing.T) {
		routes := newFakeRouteStore(weekdayRoute("route-1"))
		trips := newFakeTripStore()
		svc := NewTripGeneratorService(routes, trips, 30, testLogger())

		_, err := svc.Generate(saturday, 7)
		require.NoError(t, err)

		result, err := svc.Generate(saturday, 14)
		require.NoError(t, err)
		assert.Equal(t, 5, result.Created) // only the second week is new
	})

	t.Run("Inactive Routes Are Ignored", func(t *testing.T) {
		inactive := weekdayRoute("route-2")
		inactive.Status = models.RouteStatusInactive
		routes := newFakeRouteStore(weekdayRoute("route-1"), inactive)
		trips := newFakeTripStore()
		svc := NewTripGeneratorService(routes, trips, 30, testLogger())

		result, err := svc.Generate(saturday, 7)
		require.NoError(t, err)
		assert.Equal(t, 5, result.Created)

		fromInactive, err := trips.GetByRoute("route-2")
		require.NoError(t, err)
		assert.Empty(t, fromInactive)
	})

	t.Run("Malformed Route Is Skipped Without Aborting The Batch", func(t *testing.T) {
		broken := weekdayRoute("route-broken")
		broken.Seats = 0
		routes := newFakeRouteStore(broken, weekdayRoute("route-1"))
		trips := newFakeTripStore()
		svc := NewTripGeneratorService(routes, trips, 30, testLogger())

		result, err := svc.Generate(saturday, 7)
		require.NoError(t, err)
		assert.Equal(t, 5, result.Created)
		assert.Equal(t, 1, result.SkippedRoutes)
		require.Len(t, result.RouteErrors, 1)
		assert.Contains(t, result.RouteErrors[0], "route-broken")

		fromBroken, err := trips.GetByRoute("route-broken")
		require.NoError(t, err)
		assert.Empty(t, fromBroken)
	})

	t.Run("Store Failure On One Date Continues The Run", func(t *testing.T) {
		routes := newFakeRouteStore(weekdayRoute("route-1"))
		trips := newFakeTripStore()
		trips.createErr = fmt.Errorf("connection reset")
		svc := NewTripGeneratorService(routes, trips, 30, testLogger())

		result, err := svc.Generate(saturday, 7)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Created)
		assert.Len(t, result.RouteErrors, 5)
	})

	t.Run("Rejects Non Positive Window", func(t *testing.T) {
		svc := NewTripGeneratorService(newFakeRouteStore(), newFakeTripStore(), 30, testLogger())

		_, err := svc.Generate(saturday, 0)
		assert.Error(t, err)

		_, err = svc.Generate(saturday, -3)
		assert.Error(t, err)
	})
}

func TestRetire(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	retentionDays := 30
	cutoff := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)

	routes := newFakeRouteStore(weekdayRoute("route-1"))
	trips := newFakeTripStore()
	svc := NewTripGeneratorService(routes, trips, retentionDays, testLogger())

	// Booking-free trip past the cutoff: retired.
	trips.put(models.Trip{
		ID: "old-empty", RouteID: "route-1",
		TripDate:   cutoff.AddDate(0, 0, -1),
		TotalSeats: 40, AvailableSeats: 40, BookedSeats: 0,
		Status: models.TripStatusArrived,
	})
	// Old trip with booking history: kept forever.
	trips.put(models.Trip{
		ID: "old-booked", RouteID: "route-1",
		TripDate:   cutoff.AddDate(0, 0, -10),
		TotalSeats: 40, AvailableSeats: 30, BookedSeats: 10,
		Status: models.TripStatusArrived,
	})
	// Recent booking-free trip: inside retention, kept.
	trips.put(models.Trip{
		ID: "recent-empty", RouteID: "route-1",
		TripDate:   cutoff.AddDate(0, 0, 5),
		TotalSeats: 40, AvailableSeats: 40, BookedSeats: 0,
		Status: models.TripStatusScheduled,
	})

	retired, err := svc.Retire(asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, retired)

	_, err = trips.GetByID("old-empty")
	assert.ErrorIs(t, err, models.ErrTripNotFound)

	kept, err := trips.GetByID("old-booked")
	require.NoError(t, err)
	assert.Equal(t, 10, kept.BookedSeats)

	_, err = trips.GetByID("recent-empty")
	assert.NoError(t, err)
}
