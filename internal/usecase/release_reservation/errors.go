package release_reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("release_reservation: reservation not found")

	// ErrNotAuthorized возвращается, когда действующий пользователь - не владелец
	// бронирования и не администратор
	ErrNotAuthorized = errors.New("release_reservation: actor is not allowed to release this reservation")

	// ErrAlreadyReleased возвращается, когда бронирование уже не активно
	ErrAlreadyReleased = errors.New("release_reservation: reservation is not active")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("release_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("release_reservation: internal error")
)
