package models

import (
	"errors"
	"time"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// GetUserReservationsRequest запрос на получение истории бронирований пользователя
type GetUserReservationsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	FacilityID      int64   `json:"facilityId"`
	ReservationDate string  `json:"reservationDate"` // "2026-08-31"
	StartTime       string  `json:"startTime"`       // "10:00"
	EndTime         string  `json:"endTime"`         // "11:00"
	Status          string  `json:"status"`
	ReleasedAt      *string `json:"releasedAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FacilitySummary данные объекта, прикрепляемые к бронированию для отображения
type FacilitySummary struct {
	ID              int64   `json:"id"`
	Category        string  `json:"category"`
	UnitLabel       string  `json:"unitLabel"`
	PlateTag        string  `json:"plateTag"`
	Capacity        int     `json:"capacity"`
	PickupLocation  string  `json:"pickupLocation"`
	OperatorName    string  `json:"operatorName"`
	OperatorContact string  `json:"operatorContact"`
	Description     *string `json:"description,omitempty"`
	Status          string  `json:"status"`
}

// ActiveReservationResponse активное бронирование вместе с объектом
type ActiveReservationResponse struct {
	Reservation ReservationResponse `json:"reservation"`
	Facility    FacilitySummary     `json:"facility"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// ToDomainReservationStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)

	validStatuses := []domain.ReservationStatus{
		domain.ReservationActive,
		domain.ReservationReleased,
		domain.ReservationExpired,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		FacilityID:      r.FacilityID,
		ReservationDate: r.ReservationDate.Format(domain.DateFormat),
		StartTime:       r.StartTime.String(),
		EndTime:         r.EndTime.String(),
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}

	// Конвертируем ReleasedAt в строку ISO 8601
	if r.ReleasedAt != nil {
		releasedStr := r.ReleasedAt.Format(time.RFC3339)
		resp.ReleasedAt = &releasedStr
	}

	return resp
}

// FromDomainReservationWithFacility конвертирует join-модель в DTO
func FromDomainReservationWithFacility(rw *domain.ReservationWithFacility) *ActiveReservationResponse {
	if rw == nil {
		return nil
	}

	return &ActiveReservationResponse{
		Reservation: *FromDomainReservation(&rw.Reservation),
		Facility: FacilitySummary{
			ID:              rw.Facility.ID,
			Category:        string(rw.Facility.Category),
			UnitLabel:       rw.Facility.UnitLabel,
			PlateTag:        rw.Facility.PlateTag,
			Capacity:        rw.Facility.Capacity,
			PickupLocation:  rw.Facility.PickupLocation,
			OperatorName:    rw.Facility.OperatorName,
			OperatorContact: rw.Facility.OperatorContact,
			Description:     rw.Facility.Description,
			Status:          string(rw.Facility.Status),
		},
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, r := range reservations {
		if rr := FromDomainReservation(r); rr != nil {
			resp.Reservations = append(resp.Reservations, *rr)
		}
	}

	return resp
}
