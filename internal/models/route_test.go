package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRoute() *Route {
	return &Route{
		ID:            "route-1",
		Origin:        "Colombo",
		Destination:   "Kandy",
		VehicleType:   "bus",
		OperatingDays: IntArray{1, 2, 3, 4, 5},
		DepartureTime: "08:30",
		ArrivalTime:   "12:00",
		Seats:         40,
		Price:         1500,
		Status:        RouteStatusActive,
	}
}

func TestParseClock(t *testing.T) {
	t.Run("HH:MM", func(t *testing.T) {
		clock, err := ParseClock("08:30")
		require.NoError(t, err)
		assert.Equal(t, 8, clock.Hour())
		assert.Equal(t, 30, clock.Minute())
	})

	t.Run("HH:MM:SS", func(t *testing.T) {
		clock, err := ParseClock("23:59:59")
		require.NoError(t, err)
		assert.Equal(t, 23, clock.Hour())
		assert.Equal(t, 59, clock.Second())
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, value := range []string{"", "8.30", "25:00", "08:61", "noon"} {
			_, err := ParseClock(value)
			assert.Error(t, err, value)
		}
	})
}

func TestRouteValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Route)
		wantErr string
	}{
		{
			name:   "Valid",
			mutate: func(r *Route) {},
		},
		{
			name:    "Empty Operating Days",
			mutate:  func(r *Route) { r.OperatingDays = IntArray{} },
			wantErr: "operating_days",
		},
		{
			name:    "Day Out Of Range",
			mutate:  func(r *Route) { r.OperatingDays = IntArray{1, 7} },
			wantErr: "between 0 (Sunday) and 6 (Saturday)",
		},
		{
			name:    "Negative Day",
			mutate:  func(r *Route) { r.OperatingDays = IntArray{-1} },
			wantErr: "between 0 (Sunday) and 6 (Saturday)",
		},
		{
			name:    "Zero Seats",
			mutate:  func(r *Route) { r.Seats = 0 },
			wantErr: "seats",
		},
		{
			name:    "Zero Price",
			mutate:  func(r *Route) { r.Price = 0 },
			wantErr: "price",
		},
		{
			name:    "Bad Departure Time",
			mutate:  func(r *Route) { r.DepartureTime = "morning" },
			wantErr: "departure_time",
		},
		{
			name:    "Bad Arrival Time",
			mutate:  func(r *Route) { r.ArrivalTime = "24:61" },
			wantErr: "arrival_time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := validRoute()
			tt.mutate(route)

			err := route.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRouteOperatesOn(t *testing.T) {
	route := validRoute() // Monday through Friday

	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)

	assert.True(t, route.OperatesOn(monday))
	assert.False(t, route.OperatesOn(saturday))
	assert.False(t, route.OperatesOn(sunday))

	route.OperatingDays = IntArray{0, 6}
	assert.True(t, route.OperatesOn(saturday))
	assert.True(t, route.OperatesOn(sunday))
	assert.False(t, route.OperatesOn(monday))
}

func TestRouteIsActive(t *testing.T) {
	route := validRoute()
	assert.True(t, route.IsActive())

	route.Status = RouteStatusInactive
	assert.False(t, route.IsActive())
}
