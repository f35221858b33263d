package create_reservation

import "errors"

var (
	// ErrInvalidSlot возвращается, когда время начала не входит в разрешенный
	// набор слотов (08:00-17:00, шаг час)
	ErrInvalidSlot = errors.New("create_reservation: slot start is not a permitted value")

	// ErrAlreadyReserved возвращается, когда у пользователя уже есть активное бронирование
	ErrAlreadyReserved = errors.New("create_reservation: user already has an active reservation")

	// ErrFacilityUnavailable возвращается, когда объект не в статусе available
	// на момент commit-time проверки (в том числе при проигранной гонке)
	ErrFacilityUnavailable = errors.New("create_reservation: facility is not available")

	// ErrFacilityNotFound возвращается, когда объект не найден
	ErrFacilityNotFound = errors.New("create_reservation: facility not found")

	// ErrUserNotFound возвращается, когда пользователь не найден в UserService
	ErrUserNotFound = errors.New("create_reservation: user not found")

	// ErrUserNotApproved возвращается, когда регистрация пользователя не одобрена
	ErrUserNotApproved = errors.New("create_reservation: user is not approved")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_reservation: invalid reservation date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
