package get_active_reservation

import (
	"context"

	"github.com/m04kA/TTA-ReservationService/internal/service/reservations/models"
)

type ReservationsService interface {
	GetActiveReservation(ctx context.Context, userID int64) (*models.ActiveReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
