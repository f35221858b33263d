package get_available_facilities

import (
	"context"

	"github.com/m04kA/TTA-ReservationService/internal/service/facilities/models"
)

type FacilitiesService interface {
	ListAvailable(ctx context.Context, req *models.ListAvailableRequest) (*models.FacilityListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
