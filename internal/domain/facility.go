package domain

import "time"

// FacilityStatus represents the availability status of a facility
type FacilityStatus string

const (
	FacilityAvailable   FacilityStatus = "available"
	FacilityReserved    FacilityStatus = "reserved"
	FacilityMaintenance FacilityStatus = "maintenance"
)

// FacilityCategory represents the tier of a facility
type FacilityCategory string

const (
	CategoryLuxury   FacilityCategory = "luxury"
	CategoryStandard FacilityCategory = "standard"
	CategoryEconomy  FacilityCategory = "economy"
)

// Facility represents a reservable unit (vehicle or room) in the catalog
type Facility struct {
	ID              int64
	Category        FacilityCategory
	UnitLabel       string
	PlateTag        string
	Capacity        int
	PickupLocation  string
	OperatorName    string
	OperatorContact string
	Description     *string
	Status          FacilityStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAvailable returns true if the facility can accept a new reservation
func (f *Facility) IsAvailable() bool {
	return f.Status == FacilityAvailable
}

// IsUnderMaintenance returns true if the facility is withdrawn from service
func (f *Facility) IsUnderMaintenance() bool {
	return f.Status == FacilityMaintenance
}

// ValidFacilityStatuses список допустимых статусов объекта
var ValidFacilityStatuses = []FacilityStatus{
	FacilityAvailable,
	FacilityReserved,
	FacilityMaintenance,
}

// ValidCategories список допустимых категорий объектов
var ValidCategories = []FacilityCategory{
	CategoryLuxury,
	CategoryStandard,
	CategoryEconomy,
}

// IsValidCategory проверяет, что категория входит в допустимый набор
func IsValidCategory(c FacilityCategory) bool {
	for _, valid := range ValidCategories {
		if c == valid {
			return true
		}
	}
	return false
}

// FacilityFilter фильтр для выборки объектов каталога
type FacilityFilter struct {
	Category *FacilityCategory // Фильтр по категории (опционально, nil - все категории)
	Status   *FacilityStatus   // Фильтр по статусу (опционально, nil - все статусы)
}
