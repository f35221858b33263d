package get_facility

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TTA-ReservationService/internal/api/handlers"
	"github.com/m04kA/TTA-ReservationService/internal/api/middleware"
	facilitiesService "github.com/m04kA/TTA-ReservationService/internal/service/facilities"
)

const (
	msgInvalidFacilityID = "некорректный идентификатор объекта"
	msgMissingActor      = "не удалось определить пользователя запроса"
	msgAccessDenied      = "нет прав на просмотр этого объекта"
	msgFacilityNotFound  = "объект не найден"
)

type Handler struct {
	service FacilitiesService
	logger  Logger
}

func NewHandler(service FacilitiesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/facilities/{facilityId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.logger.Error("GET /facilities/{id} - Actor is missing from request context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	vars := mux.Vars(r)
	facilityID, err := strconv.ParseInt(vars["facilityId"], 10, 64)
	if err != nil || facilityID <= 0 {
		h.logger.Warn("GET /facilities/{id} - Invalid facility id: %s", vars["facilityId"])
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	// Вызываем сервис
	result, err := h.service.GetByID(r.Context(), actor, facilityID)
	if err != nil {
		switch {
		case errors.Is(err, facilitiesService.ErrAccessDenied):
			h.logger.Warn("GET /facilities/{id} - Access denied: actor_id=%d, facility_id=%d",
				actor.UserID, facilityID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, facilitiesService.ErrFacilityNotFound):
			h.logger.Warn("GET /facilities/{id} - Facility not found: facility_id=%d", facilityID)
			handlers.RespondNotFound(w, msgFacilityNotFound)

		default:
			h.logger.Error("GET /facilities/{id} - Failed to get facility: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /facilities/{id} - Returned facility id=%d", facilityID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
