package create_reservation

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
	createReservation "github.com/m04kA/TTA-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/TTA-ReservationService/pkg/types"
)

var (
	// errInvalidDate возвращается, когда дата не соответствует формату "2006-01-02"
	errInvalidDate = errors.New("invalid date format")

	// errInvalidTime возвращается, когда начало слота не соответствует формату "15:04"
	errInvalidTime = errors.New("invalid slot start format")
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	FacilityID int64  `json:"facilityId"`
	Date       string `json:"date"`      // "2026-09-01"
	SlotStart  string `json:"slotStart"` // "10:00"
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID               int64  `json:"id"`
	UserID           int64  `json:"userId"`
	FacilityID       int64  `json:"facilityId"`
	Date             string `json:"date"`
	SlotStart        string `json:"slotStart"`
	SlotEnd          string `json:"slotEnd"`
	Status           string `json:"status"`
	FacilityCategory string `json:"facilityCategory"`
	FacilityLabel    string `json:"facilityLabel"`
	PickupLocation   string `json:"pickupLocation"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(actor domain.Actor) (*createReservation.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	// Парсим время начала слота
	slotStart, err := types.NewTimeStringFromString(r.SlotStart)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createReservation.Request{
		Actor:      actor,
		FacilityID: r.FacilityID,
		Date:       date,
		SlotStart:  slotStart,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:               resp.ID,
		UserID:           resp.UserID,
		FacilityID:       resp.FacilityID,
		Date:             resp.ReservationDate.Format(domain.DateFormat),
		SlotStart:        resp.StartTime.String(),
		SlotEnd:          resp.EndTime.String(),
		Status:           resp.Status,
		FacilityCategory: resp.FacilityCategory,
		FacilityLabel:    resp.FacilityLabel,
		PickupLocation:   resp.PickupLocation,
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        resp.UpdatedAt.Format(time.RFC3339),
	}
}
