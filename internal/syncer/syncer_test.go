package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
)

type fakeFacilityRepo struct {
	facilities []*domain.Facility
	err        error
}

func (r *fakeFacilityRepo) List(_ context.Context, _ domain.FacilityFilter) ([]*domain.Facility, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.facilities, nil
}

type fakeReservationRepo struct {
	reservations []*domain.Reservation
	err          error
}

func (r *fakeReservationRepo) ListActive(_ context.Context) ([]*domain.Reservation, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.reservations, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func TestSyncer_RefreshPopulatesSnapshot(t *testing.T) {
	facilities := &fakeFacilityRepo{facilities: []*domain.Facility{
		{ID: 1, Status: domain.FacilityAvailable},
	}}
	reservations := &fakeReservationRepo{reservations: []*domain.Reservation{
		{ID: 7, UserID: 10, FacilityID: 1, Status: domain.ReservationActive},
	}}
	s := New(facilities, reservations, time.Second, time.Minute, noopLogger{})

	s.refresh(context.Background())

	got, ok := s.Facilities()
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	active, ok := s.ActiveReservations()
	require.True(t, ok)
	require.Len(t, active, 1)
	assert.Equal(t, int64(7), active[0].ID)
}

func TestSyncer_EmptyBeforeFirstRefresh(t *testing.T) {
	s := New(&fakeFacilityRepo{}, &fakeReservationRepo{}, time.Second, time.Minute, noopLogger{})

	_, ok := s.Facilities()
	assert.False(t, ok)

	_, ok = s.ActiveReservations()
	assert.False(t, ok)
}

func TestSyncer_FailedRefreshKeepsOldSnapshot(t *testing.T) {
	facilities := &fakeFacilityRepo{facilities: []*domain.Facility{
		{ID: 1, Status: domain.FacilityAvailable},
	}}
	reservations := &fakeReservationRepo{}
	s := New(facilities, reservations, time.Second, time.Minute, noopLogger{})

	s.refresh(context.Background())

	// БД перестала отвечать: старый снапшот доживает свой TTL
	facilities.err = errors.New("connection refused")
	reservations.err = errors.New("connection refused")
	s.refresh(context.Background())

	got, ok := s.Facilities()
	require.True(t, ok)
	assert.Len(t, got, 1)
}

func TestSyncer_SnapshotExpires(t *testing.T) {
	facilities := &fakeFacilityRepo{facilities: []*domain.Facility{
		{ID: 1, Status: domain.FacilityAvailable},
	}}
	s := New(facilities, &fakeReservationRepo{}, time.Second, 20*time.Millisecond, noopLogger{})

	s.refresh(context.Background())
	time.Sleep(40 * time.Millisecond)

	_, ok := s.Facilities()
	assert.False(t, ok)
}
