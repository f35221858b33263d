package release_reservation

import (
	"time"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
	"github.com/m04kA/TTA-ReservationService/pkg/types"
)

// Request модель запроса на освобождение бронирования
type Request struct {
	Actor         domain.Actor
	ReservationID int64
}

// Response модель ответа с освобожденным бронированием
type Response struct {
	ID              int64            `json:"id"`
	UserID          int64            `json:"user_id"`
	FacilityID      int64            `json:"facility_id"`
	ReservationDate time.Time        `json:"reservation_date"`
	StartTime       types.TimeString `json:"start_time"`
	EndTime         types.TimeString `json:"end_time"`
	Status          string           `json:"status"`
	ReleasedAt      *time.Time       `json:"released_at,omitempty"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
