package get_facility_roster

import (
	"errors"
	"net/http"

	"github.com/m04kA/TTA-ReservationService/internal/api/handlers"
	"github.com/m04kA/TTA-ReservationService/internal/api/middleware"
	facilitiesService "github.com/m04kA/TTA-ReservationService/internal/service/facilities"
	"github.com/m04kA/TTA-ReservationService/internal/service/facilities/models"
)

const (
	msgMissingActor    = "не удалось определить пользователя запроса"
	msgAccessDenied    = "реестр объектов доступен только администратору"
	msgInvalidCategory = "некорректная категория объекта"
	msgInvalidStatus   = "некорректный статус объекта"
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

// Handle GET /api/v1/facilities?status={status}&category={category}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.logger.Error("GET /facilities - Actor is missing from request context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	req := &models.ListRosterRequest{}
	if category := r.URL.Query().Get("category"); category != "" {
		req.Category = &category
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	// Вызываем сервис
	result, err := h.service.ListRoster(r.Context(), actor, req)
	if err != nil {
		switch {
		case errors.Is(err, facilitiesService.ErrAccessDenied):
			h.logger.Warn("GET /facilities - Access denied: actor_id=%d, role=%s", actor.UserID, actor.Role)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, facilitiesService.ErrInvalidCategory):
			h.logger.Warn("GET /facilities - Invalid category: %v", req.Category)
			handlers.RespondBadRequest(w, msgInvalidCategory)

		case errors.Is(err, facilitiesService.ErrInvalidStatus):
			h.logger.Warn("GET /facilities - Invalid status: %v", req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /facilities - Failed to list facilities: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /facilities - Returned %d facilities for admin_id=%d", len(result.Facilities), actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
