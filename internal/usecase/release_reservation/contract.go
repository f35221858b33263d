package release_reservation

import (
	"context"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics интерфейс доменных счетчиков. Может быть nil, если метрики выключены
type Metrics interface {
	IncReservationReleased(reason string)
}
