package get_facility

import (
	"context"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
	"github.com/m04kA/TTA-ReservationService/internal/service/facilities/models"
)

type FacilitiesService interface {
	GetByID(ctx context.Context, actor domain.Actor, id int64) (*models.FacilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
