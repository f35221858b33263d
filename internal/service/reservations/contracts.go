package reservations

import (
	"context"
	"time"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetActiveWithFacilityByUserID(ctx context.Context, userID int64) (*domain.ReservationWithFacility, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	ListActiveElapsed(ctx context.Context, now time.Time) ([]*domain.Reservation, error)
	Release(ctx context.Context, id int64, status domain.ReservationStatus) error
}

// FacilityRepository интерфейс репозитория каталога объектов
type FacilityRepository interface {
	UpdateStatusIf(ctx context.Context, id int64, from, to domain.FacilityStatus) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Snapshot интерфейс снапшота реестра, заполняемого Polling Sync Client-ом
// Второе возвращаемое значение false, если снапшот отсутствует или устарел
type Snapshot interface {
	ActiveReservations() ([]*domain.Reservation, bool)
	Facilities() ([]*domain.Facility, bool)
}

// Metrics интерфейс доменных счетчиков. Может быть nil, если метрики выключены
type Metrics interface {
	IncReservationReleased(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
