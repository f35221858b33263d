package release_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TTA-ReservationService/internal/api/handlers"
	"github.com/m04kA/TTA-ReservationService/internal/api/middleware"
	releaseReservation "github.com/m04kA/TTA-ReservationService/internal/usecase/release_reservation"
)

const (
	msgInvalidReservationID = "некорректный идентификатор бронирования"
	msgMissingActor         = "не удалось определить пользователя запроса"
	msgReservationNotFound  = "бронирование не найдено"
	msgNotAuthorized        = "нет прав на освобождение этого бронирования"
	msgAlreadyReleased      = "бронирование уже не активно"
	msgInvalidInput         = "некорректные входные данные"
)

type Handler struct {
	useCase ReleaseReservationUseCase
	logger  Logger
}

func NewHandler(useCase ReleaseReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/release
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.logger.Error("PATCH /reservations/{id}/release - Actor is missing from request context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil || reservationID <= 0 {
		h.logger.Warn("PATCH /reservations/{id}/release - Invalid reservation id: %s", vars["reservationId"])
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), &releaseReservation.Request{
		Actor:         actor,
		ReservationID: reservationID,
	})
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, releaseReservation.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/release - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, releaseReservation.ErrNotAuthorized):
			h.logger.Warn("PATCH /reservations/{id}/release - Not authorized: actor_id=%d, reservation_id=%d",
				actor.UserID, reservationID)
			handlers.RespondForbidden(w, msgNotAuthorized)

		case errors.Is(err, releaseReservation.ErrAlreadyReleased):
			h.logger.Warn("PATCH /reservations/{id}/release - Already released: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyReleased)

		case errors.Is(err, releaseReservation.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id}/release - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /reservations/{id}/release - Failed to release reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("PATCH /reservations/{id}/release - Reservation released successfully: reservation_id=%d, actor_id=%d",
		result.ID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
