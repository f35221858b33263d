package get_facility_roster

import (
	"context"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
	"github.com/m04kA/TTA-ReservationService/internal/service/facilities/models"
)

type FacilitiesService interface {
	ListRoster(ctx context.Context, actor domain.Actor, req *models.ListRosterRequest) (*models.FacilityListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
