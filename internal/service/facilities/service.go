package facilities

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
	facilityRepo "github.com/m04kA/TTA-ReservationService/internal/infra/storage/facility"
	reservationRepo "github.com/m04kA/TTA-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/TTA-ReservationService/internal/service/facilities/models"
)

// Service сервис чтения каталога объектов
type Service struct {
	facilityRepo    FacilityRepository
	reservationRepo ReservationRepository
	snapshot        Snapshot
	logger          Logger
}

// NewService создает новый экземпляр сервиса каталога
// snapshot может быть nil - тогда все чтения идут напрямую в хранилище
func NewService(
	facilityRepo FacilityRepository,
	reservationRepo ReservationRepository,
	snapshot Snapshot,
	logger Logger,
) *Service {
	return &Service{
		facilityRepo:    facilityRepo,
		reservationRepo: reservationRepo,
		snapshot:        snapshot,
		logger:          logger,
	}
}

// ListAvailable получает объекты в статусе available с опциональным фильтром
// по категории. Если снапшот Polling Sync Client-а свежий, ответ собирается
// из него без похода в БД: допустимая staleness ограничена интервалом опроса
// и никогда не используется как основание для записи
func (s *Service) ListAvailable(ctx context.Context, req *models.ListAvailableRequest) (*models.FacilityListResponse, error) {
	category, err := models.ToCategoryFilter(req.Category)
	if err != nil {
		s.logger.Warn("ListAvailable: invalid category filter %v", req.Category)
		return nil, fmt.Errorf("%w: %v", ErrInvalidCategory, *req.Category)
	}

	if cached, ok := s.snapshotFacilities(); ok {
		s.logger.Info("ListAvailable: serving from snapshot, %d facilities total", len(cached))
		return models.FromDomainFacilityList(filterAvailable(cached, category)), nil
	}

	status := domain.FacilityAvailable
	facilities, err := s.facilityRepo.List(ctx, domain.FacilityFilter{
		Category: category,
		Status:   &status,
	})
	if err != nil {
		s.logger.Error("ListAvailable: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAvailable - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListAvailable: fetched %d facilities from store", len(facilities))
	return models.FromDomainFacilityList(facilities), nil
}

// ListRoster получает полный реестр объектов со всеми статусами
// Доступно только администраторам
func (s *Service) ListRoster(ctx context.Context, actor domain.Actor, req *models.ListRosterRequest) (*models.FacilityListResponse, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("ListRoster: access denied for user=%d role=%s", actor.UserID, actor.Role)
		return nil, ErrAccessDenied
	}

	category, err := models.ToCategoryFilter(req.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCategory, *req.Category)
	}

	status, err := models.ToStatusFilter(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, *req.Status)
	}

	facilities, err := s.facilityRepo.List(ctx, domain.FacilityFilter{
		Category: category,
		Status:   status,
	})
	if err != nil {
		s.logger.Error("ListRoster: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListRoster - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListRoster: fetched %d facilities for admin=%d", len(facilities), actor.UserID)
	return models.FromDomainFacilityList(facilities), nil
}

// GetByID получает карточку объекта по ID
// Доступно администратору или держателю активного бронирования этого объекта
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id int64) (*models.FacilityResponse, error) {
	if !actor.IsAdmin() {
		active, err := s.reservationRepo.GetActiveByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				s.logger.Warn("GetByID: access denied for user=%d to facility id=%d: no active reservation",
					actor.UserID, id)
				return nil, ErrAccessDenied
			}
			s.logger.Error("GetByID: failed to check active reservation for user=%d: %v", actor.UserID, err)
			return nil, fmt.Errorf("%w: GetByID - check active reservation: %v", ErrInternal, err)
		}
		if active.FacilityID != id {
			s.logger.Warn("GetByID: access denied for user=%d to facility id=%d: holds facility id=%d",
				actor.UserID, id, active.FacilityID)
			return nil, ErrAccessDenied
		}
	}

	f, err := s.facilityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, facilityRepo.ErrFacilityNotFound) {
			s.logger.Warn("GetByID: facility id=%d not found", id)
			return nil, ErrFacilityNotFound
		}
		s.logger.Error("GetByID: repository error for facility id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainFacility(f), nil
}

// snapshotFacilities возвращает снапшот каталога, если он есть и свежий
func (s *Service) snapshotFacilities() ([]*domain.Facility, bool) {
	if s.snapshot == nil {
		return nil, false
	}
	return s.snapshot.Facilities()
}

// filterAvailable оставляет только доступные объекты нужной категории
func filterAvailable(facilities []*domain.Facility, category *domain.FacilityCategory) []*domain.Facility {
	filtered := make([]*domain.Facility, 0, len(facilities))
	for _, f := range facilities {
		if !f.IsAvailable() {
			continue
		}
		if category != nil && f.Category != *category {
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered
}
