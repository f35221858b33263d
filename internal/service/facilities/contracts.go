package facilities

import (
	"context"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
)

// FacilityRepository интерфейс репозитория каталога объектов
type FacilityRepository interface {
	List(ctx context.Context, filter domain.FacilityFilter) ([]*domain.Facility, error)
	GetByID(ctx context.Context, id int64) (*domain.Facility, error)
}

// ReservationRepository интерфейс репозитория бронирований
// Нужен для проверки владения: карточку объекта видит администратор
// или держатель его активного бронирования
type ReservationRepository interface {
	GetActiveByUserID(ctx context.Context, userID int64) (*domain.Reservation, error)
}

// Snapshot интерфейс снапшота каталога, заполняемого Polling Sync Client-ом
// Второе возвращаемое значение false, если снапшот отсутствует или устарел
type Snapshot interface {
	Facilities() ([]*domain.Facility, bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
