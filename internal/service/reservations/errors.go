package reservations

import "errors"

var (
	// ErrNoActiveReservation возвращается, когда у пользователя нет активного бронирования
	ErrNoActiveReservation = errors.New("no active reservation")

	// ErrInvalidStatus возвращается при некорректном статусе в фильтре
	ErrInvalidStatus = errors.New("invalid reservation status")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
