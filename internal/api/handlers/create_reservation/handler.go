package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/TTA-ReservationService/internal/api/handlers"
	"github.com/m04kA/TTA-ReservationService/internal/api/middleware"
	createReservation "github.com/m04kA/TTA-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime         = "некорректный формат времени начала, ожидается HH:MM"
	msgMissingActor        = "не удалось определить пользователя запроса"
	msgInvalidSlot         = "время начала не входит в разрешенный набор слотов"
	msgAlreadyReserved     = "у пользователя уже есть активное бронирование"
	msgFacilityUnavailable = "объект недоступен для бронирования"
	msgFacilityNotFound    = "объект не найден"
	msgUserNotFound        = "пользователь не найден"
	msgUserNotApproved     = "регистрация пользователя не одобрена"
	msgInvalidReserveDate  = "некорректная дата бронирования"
	msgInvalidInput        = "некорректные входные данные"

	codeUserHasActive       = "user_has_active_reservation"
	codeFacilityUnavailable = "facility_unavailable"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.logger.Error("POST /reservations - Actor is missing from request context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createReservation.ErrAlreadyReserved):
			h.logger.Warn("POST /reservations - User already has active reservation: user_id=%d", actor.UserID)
			handlers.RespondErrorCode(w, http.StatusConflict, codeUserHasActive, msgAlreadyReserved)

		case errors.Is(err, createReservation.ErrFacilityUnavailable):
			h.logger.Warn("POST /reservations - Facility unavailable: user_id=%d, facility_id=%d",
				actor.UserID, req.FacilityID)
			handlers.RespondErrorCode(w, http.StatusConflict, codeFacilityUnavailable, msgFacilityUnavailable)

		case errors.Is(err, createReservation.ErrFacilityNotFound):
			h.logger.Warn("POST /reservations - Facility not found: facility_id=%d", req.FacilityID)
			handlers.RespondNotFound(w, msgFacilityNotFound)

		case errors.Is(err, createReservation.ErrUserNotFound):
			h.logger.Warn("POST /reservations - User not found: user_id=%d", actor.UserID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, createReservation.ErrUserNotApproved):
			h.logger.Warn("POST /reservations - User not approved: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgUserNotApproved)

		case errors.Is(err, createReservation.ErrInvalidSlot):
			h.logger.Warn("POST /reservations - Invalid slot: user_id=%d, slot=%s", actor.UserID, req.SlotStart)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, createReservation.ErrInvalidDate):
			h.logger.Warn("POST /reservations - Invalid reservation date: user_id=%d, date=%s", actor.UserID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidReserveDate)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, facility_id=%d, error=%v",
				actor.UserID, req.FacilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, user_id=%d, facility_id=%d",
		result.ID, actor.UserID, req.FacilityID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
