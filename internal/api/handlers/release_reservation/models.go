package release_reservation

import (
	"time"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
	releaseReservation "github.com/m04kA/TTA-ReservationService/internal/usecase/release_reservation"
)

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"userId"`
	FacilityID int64   `json:"facilityId"`
	Date       string  `json:"date"`
	SlotStart  string  `json:"slotStart"`
	SlotEnd    string  `json:"slotEnd"`
	Status     string  `json:"status"`
	ReleasedAt *string `json:"releasedAt,omitempty"`
	UpdatedAt  string  `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *releaseReservation.Response) *ReservationResponse {
	response := &ReservationResponse{
		ID:         resp.ID,
		UserID:     resp.UserID,
		FacilityID: resp.FacilityID,
		Date:       resp.ReservationDate.Format(domain.DateFormat),
		SlotStart:  resp.StartTime.String(),
		SlotEnd:    resp.EndTime.String(),
		Status:     resp.Status,
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.ReleasedAt != nil {
		releasedStr := resp.ReleasedAt.Format(time.RFC3339)
		response.ReleasedAt = &releasedStr
	}

	return response
}
