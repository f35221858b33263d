package reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
	facilityRepo "github.com/m04kA/TTA-ReservationService/internal/infra/storage/facility"
	reservationRepo "github.com/m04kA/TTA-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/TTA-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/TTA-ReservationService/pkg/ptr"
)

// --- Фейки ---

type fakeReservationRepo struct {
	active   map[int64]*domain.ReservationWithFacility
	history  map[int64][]*domain.Reservation
	elapsed  []*domain.Reservation
	released []int64
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{
		active:  make(map[int64]*domain.ReservationWithFacility),
		history: make(map[int64][]*domain.Reservation),
	}
}

func (r *fakeReservationRepo) GetActiveWithFacilityByUserID(_ context.Context, userID int64) (*domain.ReservationWithFacility, error) {
	rw, ok := r.active[userID]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return rw, nil
}

func (r *fakeReservationRepo) GetByUserID(_ context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, res := range r.history[userID] {
		if status != nil && res.Status != *status {
			continue
		}
		result = append(result, res)
	}
	return result, nil
}

func (r *fakeReservationRepo) ListActiveElapsed(_ context.Context, _ time.Time) ([]*domain.Reservation, error) {
	return r.elapsed, nil
}

func (r *fakeReservationRepo) Release(_ context.Context, id int64, status domain.ReservationStatus) error {
	r.released = append(r.released, id)
	return nil
}

type fakeFacilityRepo struct {
	statuses map[int64]domain.FacilityStatus
	failWith error
}

func (r *fakeFacilityRepo) UpdateStatusIf(_ context.Context, id int64, from, to domain.FacilityStatus) error {
	if r.failWith != nil {
		return r.failWith
	}
	if r.statuses[id] != from {
		return facilityRepo.ErrStatusConflict
	}
	r.statuses[id] = to
	return nil
}

type fakeSnapshot struct {
	reservations []*domain.Reservation
	facilities   []*domain.Facility
	fresh        bool
}

func (s *fakeSnapshot) ActiveReservations() ([]*domain.Reservation, bool) {
	return s.reservations, s.fresh
}

func (s *fakeSnapshot) Facilities() ([]*domain.Facility, bool) {
	return s.facilities, s.fresh
}

type fakeMetrics struct {
	released map[string]int
}

func (m *fakeMetrics) IncReservationReleased(reason string) { m.released[reason]++ }

type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// --- Тесты ---

func TestGetActiveReservation(t *testing.T) {
	repo := newFakeReservationRepo()
	repo.active[10] = &domain.ReservationWithFacility{
		Reservation: domain.Reservation{
			ID: 1, UserID: 10, FacilityID: 5,
			ReservationDate: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			StartTime:       "10:00", EndTime: "11:00",
			Status: domain.ReservationActive,
		},
		Facility: domain.Facility{ID: 5, Category: domain.CategoryLuxury, UnitLabel: "Yacht 3", Status: domain.FacilityReserved},
	}
	svc := NewService(repo, &fakeFacilityRepo{}, &fakeTxManager{}, nil, nil, noopLogger{})

	resp, err := svc.GetActiveReservation(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Reservation.ID)
	assert.Equal(t, "Yacht 3", resp.Facility.UnitLabel)
}

func TestGetActiveReservation_None(t *testing.T) {
	svc := NewService(newFakeReservationRepo(), &fakeFacilityRepo{}, &fakeTxManager{}, nil, nil, noopLogger{})

	_, err := svc.GetActiveReservation(context.Background(), 10)

	assert.ErrorIs(t, err, ErrNoActiveReservation)
}

func TestGetUserReservations_FiltersByStatus(t *testing.T) {
	repo := newFakeReservationRepo()
	repo.history[10] = []*domain.Reservation{
		{ID: 1, UserID: 10, FacilityID: 5, ReservationDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
			StartTime: "10:00", EndTime: "11:00", Status: domain.ReservationReleased},
		{ID: 2, UserID: 10, FacilityID: 6, ReservationDate: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			StartTime: "12:00", EndTime: "13:00", Status: domain.ReservationActive},
	}
	svc := NewService(repo, &fakeFacilityRepo{}, &fakeTxManager{}, nil, nil, noopLogger{})

	resp, err := svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID: 10,
		Status: ptr.Ptr("released"),
	})

	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, int64(1), resp.Reservations[0].ID)
}

func TestGetUserReservations_InvalidStatus(t *testing.T) {
	svc := NewService(newFakeReservationRepo(), &fakeFacilityRepo{}, &fakeTxManager{}, nil, nil, noopLogger{})

	_, err := svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID: 10,
		Status: ptr.Ptr("cancelled"),
	})

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestReleaseExpired(t *testing.T) {
	repo := newFakeReservationRepo()
	repo.elapsed = []*domain.Reservation{
		{ID: 1, UserID: 10, FacilityID: 5, Status: domain.ReservationActive},
		{ID: 2, UserID: 20, FacilityID: 6, Status: domain.ReservationActive},
	}
	facilities := &fakeFacilityRepo{statuses: map[int64]domain.FacilityStatus{
		5: domain.FacilityReserved,
		// Объект 6 в maintenance: бронирование все равно снимается
		6: domain.FacilityMaintenance,
	}}
	svc := NewService(repo, facilities, &fakeTxManager{}, nil, nil, noopLogger{})

	released, err := svc.ReleaseExpired(context.Background(), time.Now())

	require.NoError(t, err)
	assert.Equal(t, 2, released)
	assert.Equal(t, []int64{1, 2}, repo.released)
	assert.Equal(t, domain.FacilityAvailable, facilities.statuses[5])
	assert.Equal(t, domain.FacilityMaintenance, facilities.statuses[6])
}

func TestReleaseExpired_NothingToDo(t *testing.T) {
	svc := NewService(newFakeReservationRepo(), &fakeFacilityRepo{}, &fakeTxManager{}, nil, nil, noopLogger{})

	released, err := svc.ReleaseExpired(context.Background(), time.Now())

	require.NoError(t, err)
	assert.Zero(t, released)
}

func TestGetActiveReservation_FromSnapshot(t *testing.T) {
	// Репозиторий пуст: успешный ответ возможен только из снапшота
	snapshot := &fakeSnapshot{
		reservations: []*domain.Reservation{
			{ID: 1, UserID: 10, FacilityID: 5,
				ReservationDate: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
				StartTime:       "10:00", EndTime: "11:00",
				Status: domain.ReservationActive},
		},
		facilities: []*domain.Facility{
			{ID: 5, Category: domain.CategoryLuxury, UnitLabel: "Yacht 3", Status: domain.FacilityReserved},
		},
		fresh: true,
	}
	svc := NewService(newFakeReservationRepo(), &fakeFacilityRepo{}, &fakeTxManager{}, snapshot, nil, noopLogger{})

	resp, err := svc.GetActiveReservation(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Reservation.ID)
	assert.Equal(t, "Yacht 3", resp.Facility.UnitLabel)
}

func TestGetActiveReservation_SnapshotMissFallsBackToStore(t *testing.T) {
	repo := newFakeReservationRepo()
	repo.active[10] = &domain.ReservationWithFacility{
		Reservation: domain.Reservation{
			ID: 2, UserID: 10, FacilityID: 6,
			ReservationDate: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			StartTime:       "12:00", EndTime: "13:00",
			Status: domain.ReservationActive,
		},
		Facility: domain.Facility{ID: 6, Category: domain.CategoryEconomy, UnitLabel: "Van 7", Status: domain.FacilityReserved},
	}
	// Снапшот свежий, но бронирование создано после последнего тика опроса
	snapshot := &fakeSnapshot{fresh: true}
	svc := NewService(repo, &fakeFacilityRepo{}, &fakeTxManager{}, snapshot, nil, noopLogger{})

	resp, err := svc.GetActiveReservation(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Reservation.ID)
}

func TestGetActiveReservation_StaleSnapshotFallsBackToStore(t *testing.T) {
	repo := newFakeReservationRepo()
	repo.active[10] = &domain.ReservationWithFacility{
		Reservation: domain.Reservation{
			ID: 3, UserID: 10, FacilityID: 5,
			ReservationDate: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			StartTime:       "10:00", EndTime: "11:00",
			Status: domain.ReservationActive,
		},
		Facility: domain.Facility{ID: 5, Category: domain.CategoryLuxury, UnitLabel: "Yacht 3", Status: domain.FacilityReserved},
	}
	snapshot := &fakeSnapshot{
		reservations: []*domain.Reservation{{ID: 99, UserID: 10, FacilityID: 5, Status: domain.ReservationActive}},
		fresh:        false,
	}
	svc := NewService(repo, &fakeFacilityRepo{}, &fakeTxManager{}, snapshot, nil, noopLogger{})

	resp, err := svc.GetActiveReservation(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Reservation.ID)
}

func TestReleaseExpired_CountsReleased(t *testing.T) {
	repo := newFakeReservationRepo()
	repo.elapsed = []*domain.Reservation{
		{ID: 1, UserID: 10, FacilityID: 5, Status: domain.ReservationActive},
		{ID: 2, UserID: 20, FacilityID: 6, Status: domain.ReservationActive},
	}
	facilities := &fakeFacilityRepo{statuses: map[int64]domain.FacilityStatus{
		5: domain.FacilityReserved,
		6: domain.FacilityReserved,
	}}
	counters := &fakeMetrics{released: make(map[string]int)}
	svc := NewService(repo, facilities, &fakeTxManager{}, nil, counters, noopLogger{})

	released, err := svc.ReleaseExpired(context.Background(), time.Now())

	require.NoError(t, err)
	assert.Equal(t, 2, released)
	assert.Equal(t, 2, counters.released["expired"])
}

func TestReleaseExpired_FacilityFlipFailureAborts(t *testing.T) {
	repo := newFakeReservationRepo()
	repo.elapsed = []*domain.Reservation{
		{ID: 1, UserID: 10, FacilityID: 5, Status: domain.ReservationActive},
	}
	facilities := &fakeFacilityRepo{failWith: errors.New("driver: bad connection")}
	svc := NewService(repo, facilities, &fakeTxManager{}, nil, nil, noopLogger{})

	released, err := svc.ReleaseExpired(context.Background(), time.Now())

	assert.ErrorIs(t, err, ErrInternal)
	assert.Zero(t, released)
}
