package release_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
	facilityRepo "github.com/m04kA/TTA-ReservationService/internal/infra/storage/facility"
	reservationRepo "github.com/m04kA/TTA-ReservationService/internal/infra/storage/reservation"
)

// --- Фейки ---

type fakeStore struct {
	reservations map[int64]*domain.Reservation
	facilities   map[int64]*domain.Facility
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		reservations: make(map[int64]*domain.Reservation),
		facilities:   make(map[int64]*domain.Facility),
	}
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	res, ok := s.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (s *fakeStore) Release(_ context.Context, id int64, status domain.ReservationStatus) error {
	res, ok := s.reservations[id]
	if !ok || res.Status != domain.ReservationActive {
		return reservationRepo.ErrReservationNotFound
	}
	now := time.Now()
	res.Status = status
	res.ReleasedAt = &now
	res.UpdatedAt = now
	return nil
}

func (s *fakeStore) UpdateStatusIf(_ context.Context, id int64, from, to domain.FacilityStatus) error {
	f, ok := s.facilities[id]
	if !ok {
		return facilityRepo.ErrFacilityNotFound
	}
	if f.Status != from {
		return facilityRepo.ErrStatusConflict
	}
	f.Status = to
	return nil
}

type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct {
	released map[string]int
}

func (m *fakeMetrics) IncReservationReleased(reason string) { m.released[reason]++ }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// --- Хелперы ---

func activeReservation(id, userID, facilityID int64) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		UserID:          userID,
		FacilityID:      facilityID,
		ReservationDate: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		EndTime:         "11:00",
		Status:          domain.ReservationActive,
	}
}

func newTestUseCase(store *fakeStore) *UseCase {
	return NewUseCase(store, store, &fakeTxManager{}, nil, noopLogger{})
}

// --- Тесты ---

func TestExecute_OwnerReleases(t *testing.T) {
	store := newFakeStore()
	store.reservations[1] = activeReservation(1, 10, 5)
	store.facilities[5] = &domain.Facility{ID: 5, Status: domain.FacilityReserved}
	uc := newTestUseCase(store)

	resp, err := uc.Execute(context.Background(), &Request{
		Actor:         domain.Actor{UserID: 10, Role: domain.RoleUser},
		ReservationID: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.ReservationReleased), resp.Status)
	require.NotNil(t, resp.ReleasedAt)

	// Объект вернулся в available тем же коммитом
	assert.Equal(t, domain.FacilityAvailable, store.facilities[5].Status)
}

func TestExecute_AdminReleasesForeignReservation(t *testing.T) {
	store := newFakeStore()
	store.reservations[1] = activeReservation(1, 10, 5)
	store.facilities[5] = &domain.Facility{ID: 5, Status: domain.FacilityReserved}
	uc := newTestUseCase(store)

	resp, err := uc.Execute(context.Background(), &Request{
		Actor:         domain.Actor{UserID: 99, Role: domain.RoleAdmin},
		ReservationID: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.ReservationReleased), resp.Status)
}

func TestExecute_ForeignUserIsRejected(t *testing.T) {
	store := newFakeStore()
	store.reservations[1] = activeReservation(1, 10, 5)
	store.facilities[5] = &domain.Facility{ID: 5, Status: domain.FacilityReserved}
	uc := newTestUseCase(store)

	_, err := uc.Execute(context.Background(), &Request{
		Actor:         domain.Actor{UserID: 20, Role: domain.RoleUser},
		ReservationID: 1,
	})

	assert.ErrorIs(t, err, ErrNotAuthorized)
	// Бронирование не тронуто
	assert.Equal(t, domain.ReservationActive, store.reservations[1].Status)
}

func TestExecute_ReservationNotFound(t *testing.T) {
	uc := newTestUseCase(newFakeStore())

	_, err := uc.Execute(context.Background(), &Request{
		Actor:         domain.Actor{UserID: 10, Role: domain.RoleUser},
		ReservationID: 42,
	})

	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecute_AlreadyReleased(t *testing.T) {
	store := newFakeStore()
	res := activeReservation(1, 10, 5)
	res.Status = domain.ReservationReleased
	store.reservations[1] = res
	store.facilities[5] = &domain.Facility{ID: 5, Status: domain.FacilityAvailable}
	uc := newTestUseCase(store)

	_, err := uc.Execute(context.Background(), &Request{
		Actor:         domain.Actor{UserID: 10, Role: domain.RoleUser},
		ReservationID: 1,
	})

	assert.ErrorIs(t, err, ErrAlreadyReleased)
}

func TestExecute_FacilityInMaintenanceStaysPut(t *testing.T) {
	// Объект успели перевести в maintenance: бронирование освобождается,
	// статус объекта не меняется
	store := newFakeStore()
	store.reservations[1] = activeReservation(1, 10, 5)
	store.facilities[5] = &domain.Facility{ID: 5, Status: domain.FacilityMaintenance}
	uc := newTestUseCase(store)

	resp, err := uc.Execute(context.Background(), &Request{
		Actor:         domain.Actor{UserID: 10, Role: domain.RoleUser},
		ReservationID: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.ReservationReleased), resp.Status)
	assert.Equal(t, domain.FacilityMaintenance, store.facilities[5].Status)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(newFakeStore())

	_, err := uc.Execute(context.Background(), &Request{
		Actor:         domain.Actor{UserID: 10, Role: domain.RoleUser},
		ReservationID: 0,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_CountsManualRelease(t *testing.T) {
	store := newFakeStore()
	store.reservations[1] = activeReservation(1, 10, 5)
	store.facilities[5] = &domain.Facility{ID: 5, Status: domain.FacilityReserved}
	counters := &fakeMetrics{released: make(map[string]int)}
	uc := newTestUseCase(store)
	uc.metrics = counters

	_, err := uc.Execute(context.Background(), &Request{
		Actor:         domain.Actor{UserID: 10, Role: domain.RoleUser},
		ReservationID: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, counters.released["manual"])

	// Повторное освобождение не инкрементирует счетчик
	_, err = uc.Execute(context.Background(), &Request{
		Actor:         domain.Actor{UserID: 10, Role: domain.RoleUser},
		ReservationID: 1,
	})
	assert.ErrorIs(t, err, ErrAlreadyReleased)
	assert.Equal(t, 1, counters.released["manual"])
}
