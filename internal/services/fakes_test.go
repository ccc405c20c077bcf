package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/travelo/transport-backend/internal/models"
)

// fakeRouteStore is an in-memory RouteStore for service tests.
type fakeRouteStore struct {
	routes       []models.Route
	getActiveErr error
	deleted      []string
	statuses     map[string]models.RouteStatus
}

func newFakeRouteStore(routes ...models.Route) *fakeRouteStore {
	return &fakeRouteStore{
		routes:   routes,
		statuses: map[string]models.RouteStatus{},
	}
}

func (f *fakeRouteStore) GetAll() ([]models.Route, error) {
	return f.routes, nil
}

func (f *fakeRouteStore) GetActive() ([]models.Route, error) {
	if f.getActiveErr != nil {
		return nil, f.getActiveErr
	}
	active := []models.Route{}
	for _, r := range f.routes {
		if r.IsActive() {
			active = append(active, r)
		}
	}
	return active, nil
}

func (f *fakeRouteStore) GetByID(routeID string) (*models.Route, error) {
	for i := range f.routes {
		if f.routes[i].ID == routeID {
			route := f.routes[i]
			return &route, nil
		}
	}
	return nil, models.ErrRouteNotFound
}

func (f *fakeRouteStore) SetStatus(routeID string, status models.RouteStatus) error {
	if _, err := f.GetByID(routeID); err != nil {
		return err
	}
	f.statuses[routeID] = status
	return nil
}

func (f *fakeRouteStore) Delete(routeID string) error {
	for i := range f.routes {
		if f.routes[i].ID == routeID {
			f.routes = append(f.routes[:i], f.routes[i+1:]...)
			f.deleted = append(f.deleted, routeID)
			return nil
		}
	}
	return models.ErrRouteNotFound
}

// fakeTripStore is an in-memory TripStore that mirrors the repository's
// conditional-update semantics. The mutex makes each call atomic, matching
// the per-row atomicity the real store gets from single conditional UPDATEs,
// so the concurrency tests exercise the same contract the services rely on.
type fakeTripStore struct {
	mu        sync.Mutex
	trips     map[string]*models.Trip
	byKey     map[string]string // route_id|trip_date -> trip id
	createErr error
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{
		trips: map[string]*models.Trip{},
		byKey: map[string]string{},
	}
}

func tripKey(routeID string, date time.Time) string {
	return routeID + "|" + date.Format("2006-01-02")
}

func (f *fakeTripStore) put(trip models.Trip) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := trip
	f.trips[trip.ID] = &copied
	f.byKey[tripKey(trip.RouteID, trip.TripDate)] = trip.ID
}

func (f *fakeTripStore) get(tripID string) models.Trip {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.trips[tripID]
}

func (f *fakeTripStore) CreateIfAbsent(trip *models.Trip) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return false, f.createErr
	}
	key := tripKey(trip.RouteID, trip.TripDate)
	if _, ok := f.byKey[key]; ok {
		return false, nil
	}
	copied := *trip
	f.trips[trip.ID] = &copied
	f.byKey[key] = trip.ID
	return true, nil
}

func (f *fakeTripStore) GetByID(tripID string) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[tripID]
	if !ok {
		return nil, models.ErrTripNotFound
	}
	copied := *trip
	return &copied, nil
}

func (f *fakeTripStore) GetByDateRange(startDate, endDate time.Time) ([]models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trips := []models.Trip{}
	for _, trip := range f.trips {
		if !trip.TripDate.Before(startDate) && !trip.TripDate.After(endDate) {
			trips = append(trips, *trip)
		}
	}
	return trips, nil
}

func (f *fakeTripStore) GetByRoute(routeID string) ([]models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trips := []models.Trip{}
	for _, trip := range f.trips {
		if trip.RouteID == routeID {
			trips = append(trips, *trip)
		}
	}
	return trips, nil
}

func (f *fakeTripStore) Update(trip *models.Trip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.trips[trip.ID]; !ok {
		return models.ErrTripNotFound
	}
	copied := *trip
	f.trips[trip.ID] = &copied
	return nil
}

func (f *fakeTripStore) Cancel(tripID string, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[tripID]
	if !ok {
		return models.ErrTripNotFound
	}
	if trip.Status.IsTerminal() {
		return fmt.Errorf("trip %s is already in a terminal status", tripID)
	}
	now := time.Now()
	trip.Status = models.TripStatusCancelled
	trip.CancelReason = &reason
	trip.CancelledAt = &now
	return nil
}

func (f *fakeTripStore) ReserveSeats(tripID string, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[tripID]
	if !ok {
		return models.ErrTripNotFound
	}
	if trip.AvailableSeats < count {
		return models.ErrSoldOut
	}
	trip.AvailableSeats -= count
	trip.BookedSeats += count
	return nil
}

func (f *fakeTripStore) ReleaseSeats(tripID string, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[tripID]
	if !ok {
		return models.ErrTripNotFound
	}
	if trip.BookedSeats < count {
		return models.ErrInventoryDefect
	}
	trip.AvailableSeats += count
	trip.BookedSeats -= count
	return nil
}

func (f *fakeTripStore) DeleteRetired(cutoff time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	retired := 0
	for id, trip := range f.trips {
		if trip.TripDate.Before(cutoff) && trip.BookedSeats == 0 {
			delete(f.byKey, tripKey(trip.RouteID, trip.TripDate))
			delete(f.trips, id)
			retired++
		}
	}
	return retired, nil
}

func (f *fakeTripStore) CountBlockingForRoute(routeID string, from time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, trip := range f.trips {
		if trip.RouteID == routeID && !trip.TripDate.Before(from) && trip.Status != models.TripStatusCancelled {
			count++
		}
	}
	return count, nil
}
