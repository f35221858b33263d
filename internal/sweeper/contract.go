package sweeper

import (
	"context"
	"time"
)

// ReservationsService интерфейс сервиса бронирований
type ReservationsService interface {
	ReleaseExpired(ctx context.Context, now time.Time) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
