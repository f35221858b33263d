package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrUserHasActive возвращается при нарушении ограничения
	// "одно активное бронирование на пользователя"
	ErrUserHasActive = errors.New("reservation.repository: user already has an active reservation")

	// ErrFacilityTaken возвращается при нарушении ограничения
	// "одно активное бронирование на объект"
	ErrFacilityTaken = errors.New("reservation.repository: facility already has an active reservation")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
