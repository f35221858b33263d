package get_available_facilities

import (
	"errors"
	"net/http"

	"github.com/m04kA/TTA-ReservationService/internal/api/handlers"
	facilitiesService "github.com/m04kA/TTA-ReservationService/internal/service/facilities"
	"github.com/m04kA/TTA-ReservationService/internal/service/facilities/models"
)

const (
	msgInvalidCategory = "некорректная категория объекта"
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

// Handle GET /api/v1/facilities/available?category={category}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.ListAvailableRequest{}
	if category := r.URL.Query().Get("category"); category != "" {
		req.Category = &category
	}

	// Вызываем сервис
	result, err := h.service.ListAvailable(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, facilitiesService.ErrInvalidCategory):
			h.logger.Warn("GET /facilities/available - Invalid category: %v", req.Category)
			handlers.RespondBadRequest(w, msgInvalidCategory)

		default:
			h.logger.Error("GET /facilities/available - Failed to list facilities: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /facilities/available - Returned %d facilities", len(result.Facilities))
	handlers.RespondJSON(w, http.StatusOK, result)
}
