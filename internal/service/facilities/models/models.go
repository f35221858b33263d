package models

import (
	"errors"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
)

var (
	// ErrInvalidCategory возвращается при некорректной категории
	ErrInvalidCategory = errors.New("invalid facility category")

	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid facility status")
)

// Request модели

// ListAvailableRequest запрос на получение доступных объектов
type ListAvailableRequest struct {
	Category *string `json:"category,omitempty"` // Фильтр по категории (опционально, "all" = без фильтра)
}

// ListRosterRequest запрос на получение полного реестра объектов (админ)
type ListRosterRequest struct {
	Category *string `json:"category,omitempty"` // Фильтр по категории (опционально)
	Status   *string `json:"status,omitempty"`   // Фильтр по статусу (опционально)
}

// ToCategoryFilter конвертирует строковую категорию в domain-фильтр
// Значение "all" и пустая строка трактуются как отсутствие фильтра
func ToCategoryFilter(category *string) (*domain.FacilityCategory, error) {
	if category == nil || *category == "" || *category == "all" {
		return nil, nil
	}

	c := domain.FacilityCategory(*category)
	if !domain.IsValidCategory(c) {
		return nil, ErrInvalidCategory
	}

	return &c, nil
}

// ToStatusFilter конвертирует строковый статус в domain-фильтр
func ToStatusFilter(status *string) (*domain.FacilityStatus, error) {
	if status == nil || *status == "" || *status == "all" {
		return nil, nil
	}

	s := domain.FacilityStatus(*status)
	for _, valid := range domain.ValidFacilityStatuses {
		if s == valid {
			return &s, nil
		}
	}

	return nil, ErrInvalidStatus
}

// Response модели

// FacilityResponse ответ с данными объекта
type FacilityResponse struct {
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

// FacilityListResponse ответ со списком объектов
type FacilityListResponse struct {
	Facilities []FacilityResponse `json:"facilities"`
}

// Методы конвертации

// FromDomainFacility конвертирует domain модель в DTO
func FromDomainFacility(f *domain.Facility) *FacilityResponse {
	if f == nil {
		return nil
	}

	return &FacilityResponse{
		ID:              f.ID,
		Category:        string(f.Category),
		UnitLabel:       f.UnitLabel,
		PlateTag:        f.PlateTag,
		Capacity:        f.Capacity,
		PickupLocation:  f.PickupLocation,
		OperatorName:    f.OperatorName,
		OperatorContact: f.OperatorContact,
		Description:     f.Description,
		Status:          string(f.Status),
	}
}

// FromDomainFacilityList конвертирует список domain моделей в DTO
func FromDomainFacilityList(facilities []*domain.Facility) *FacilityListResponse {
	resp := &FacilityListResponse{
		Facilities: make([]FacilityResponse, 0, len(facilities)),
	}

	for _, f := range facilities {
		if fr := FromDomainFacility(f); fr != nil {
			resp.Facilities = append(resp.Facilities, *fr)
		}
	}

	return resp
}
