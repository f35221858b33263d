package syncer

import (
	"context"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
)

// FacilityRepository интерфейс репозитория каталога объектов
type FacilityRepository interface {
	List(ctx context.Context, filter domain.FacilityFilter) ([]*domain.Facility, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListActive(ctx context.Context) ([]*domain.Reservation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
