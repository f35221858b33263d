package get_active_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TTA-ReservationService/internal/api/handlers"
	"github.com/m04kA/TTA-ReservationService/internal/api/middleware"
	reservationsService "github.com/m04kA/TTA-ReservationService/internal/service/reservations"
)

const (
	msgInvalidUserID       = "некорректный идентификатор пользователя"
	msgMissingActor        = "не удалось определить пользователя запроса"
	msgAccessDenied        = "нет прав на просмотр бронирований этого пользователя"
	msgNoActiveReservation = "активное бронирование не найдено"
)

type Handler struct {
	service ReservationsService
	logger  Logger
}

func NewHandler(service ReservationsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{userId}/reservations/active
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.logger.Error("GET /users/{id}/reservations/active - Actor is missing from request context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil || userID <= 0 {
		h.logger.Warn("GET /users/{id}/reservations/active - Invalid user id: %s", vars["userId"])
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	// Смотреть чужие бронирования может только администратор
	if !actor.IsAdmin() && !actor.Owns(userID) {
		h.logger.Warn("GET /users/{id}/reservations/active - Access denied: actor_id=%d, user_id=%d",
			actor.UserID, userID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	// Вызываем сервис
	result, err := h.service.GetActiveReservation(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, reservationsService.ErrNoActiveReservation):
			h.logger.Info("GET /users/{id}/reservations/active - No active reservation: user_id=%d", userID)
			handlers.RespondNotFound(w, msgNoActiveReservation)

		default:
			h.logger.Error("GET /users/{id}/reservations/active - Failed to get active reservation: user_id=%d, error=%v",
				userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{id}/reservations/active - Returned reservation id=%d for user_id=%d",
		result.Reservation.ID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
