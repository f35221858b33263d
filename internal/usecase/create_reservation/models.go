package create_reservation

import (
	"time"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
	"github.com/m04kA/TTA-ReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor      domain.Actor     // Контекст сессии: кто бронирует
	FacilityID int64            // ID объекта
	Date       time.Time        // Дата бронирования (без времени)
	SlotStart  types.TimeString // Время начала слота (например, "10:00")
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64            // ID созданного бронирования
	UserID          int64            // ID пользователя
	FacilityID      int64            // ID объекта
	ReservationDate time.Time        // Дата бронирования
	StartTime       types.TimeString // Время начала
	EndTime         types.TimeString // Время конца (начало + час)
	Status          string           // Статус бронирования

	// Данные объекта для отображения
	FacilityCategory string
	FacilityLabel    string
	PickupLocation   string

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
