package domain

import (
	"time"

	"github.com/m04kA/TTA-ReservationService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	// ReservationActive бронирование действует, объект закреплен за пользователем
	ReservationActive ReservationStatus = "active"
	// ReservationReleased бронирование снято пользователем или администратором
	ReservationReleased ReservationStatus = "released"
	// ReservationExpired временное окно бронирования истекло, снято sweeper-ом
	ReservationExpired ReservationStatus = "expired"
)

// Reservation represents a reservation of a facility by a user
type Reservation struct {
	ID              int64
	UserID          int64
	FacilityID      int64
	ReservationDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Status          ReservationStatus
	ReleasedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation still holds the facility
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationActive
}

// WindowElapsed returns true if the reservation's time window has passed
func (r *Reservation) WindowElapsed(now time.Time) bool {
	end, err := r.EndTime.OnDate(r.ReservationDate)
	if err != nil {
		return false
	}
	return !now.Before(end)
}

// ReservationWithFacility бронирование вместе с объектом для отображения
type ReservationWithFacility struct {
	Reservation Reservation
	Facility    Facility
}

// ReservationFilter фильтр для выборки бронирований пользователя
type ReservationFilter struct {
	UserID int64              // Обязательный параметр
	Status *ReservationStatus // Фильтр по статусу (опционально)
}
