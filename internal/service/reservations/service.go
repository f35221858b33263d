package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
	facilityRepo "github.com/m04kA/TTA-ReservationService/internal/infra/storage/facility"
	reservationRepo "github.com/m04kA/TTA-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/TTA-ReservationService/internal/service/reservations/models"
)

// Значение label reason для счетчика снятых бронирований
const releaseReasonExpired = "expired"

// Service сервис чтения реестра бронирований и зачистки истекших
type Service struct {
	reservationRepo ReservationRepository
	facilityRepo    FacilityRepository
	txManager       TransactionManager
	snapshot        Snapshot
	metrics         Metrics
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
// snapshot и metrics могут быть nil - снапшот тогда не используется,
// счетчики не инкрементируются
func NewService(
	reservationRepo ReservationRepository,
	facilityRepo FacilityRepository,
	txManager TransactionManager,
	snapshot Snapshot,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		facilityRepo:    facilityRepo,
		txManager:       txManager,
		snapshot:        snapshot,
		metrics:         metrics,
		logger:          logger,
	}
}

// GetActiveReservation получает активное бронирование пользователя вместе
// с данными объекта. Возвращает ErrNoActiveReservation, если его нет
// Используется UI как precondition gate перед созданием бронирования,
// но commit-time проверка выполняется заново внутри reserve
//
// Если снапшот Polling Sync Client-а свежий и содержит бронирование
// пользователя, ответ собирается из него без похода в БД. Отсутствие
// в снапшоте перепроверяется по хранилищу: бронирование, созданное после
// последнего тика опроса, не должно выглядеть отсутствующим
func (s *Service) GetActiveReservation(ctx context.Context, userID int64) (*models.ActiveReservationResponse, error) {
	if cached, ok := s.snapshotActive(userID); ok {
		s.logger.Info("GetActiveReservation: serving user=%d from snapshot", userID)
		return cached, nil
	}

	rw, err := s.reservationRepo.GetActiveWithFacilityByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Info("GetActiveReservation: no active reservation for user=%d", userID)
			return nil, ErrNoActiveReservation
		}
		s.logger.Error("GetActiveReservation: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetActiveReservation - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetActiveReservation: user=%d holds reservation id=%d facility=%d",
		userID, rw.Reservation.ID, rw.Facility.ID)
	return models.FromDomainReservationWithFacility(rw), nil
}

// GetUserReservations получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	var domainStatus *domain.ReservationStatus
	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *req.Status)
		}
		domainStatus = &status
	}

	reservations, err := s.reservationRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: fetched %d reservations for user=%d", len(reservations), req.UserID)
	return models.FromDomainReservationList(reservations), nil
}

// ReleaseExpired снимает активные бронирования, чье временное окно истекло
// к моменту now, и возвращает их объекты в статус available
// Каждая пара "бронирование + объект" снимается атомарно внутри одной
// сериализуемой транзакции; вызывается sweeper-ом по расписанию
func (s *Service) ReleaseExpired(ctx context.Context, now time.Time) (int, error) {
	released := 0

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		elapsed, err := s.reservationRepo.ListActiveElapsed(txCtx, now)
		if err != nil {
			return fmt.Errorf("%w: ReleaseExpired - list elapsed: %v", ErrInternal, err)
		}

		for _, res := range elapsed {
			if err := s.reservationRepo.Release(txCtx, res.ID, domain.ReservationExpired); err != nil {
				return fmt.Errorf("%w: ReleaseExpired - release reservation id=%d: %v", ErrInternal, res.ID, err)
			}

			err := s.facilityRepo.UpdateStatusIf(txCtx, res.FacilityID, domain.FacilityReserved, domain.FacilityAvailable)
			if err != nil {
				// Пропустить можно только конфликт статуса: объект в
				// maintenance остается в maintenance. Любая другая ошибка
				// откатывает транзакцию целиком - иначе бронирование будет
				// помечено expired при все еще занятом объекте
				if !errors.Is(err, facilityRepo.ErrStatusConflict) {
					return fmt.Errorf("%w: ReleaseExpired - flip facility id=%d: %v", ErrInternal, res.FacilityID, err)
				}
				s.logger.Warn("ReleaseExpired: facility id=%d not flipped to available: %v", res.FacilityID, err)
			}

			released++
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	if s.metrics != nil {
		for i := 0; i < released; i++ {
			s.metrics.IncReservationReleased(releaseReasonExpired)
		}
	}

	if released > 0 {
		s.logger.Info("ReleaseExpired: released %d expired reservations", released)
	}
	return released, nil
}

// snapshotActive собирает активное бронирование пользователя из снапшота
// Возвращает false, если снапшот отсутствует, устарел или не видит
// бронирование - тогда чтение идет напрямую в хранилище
func (s *Service) snapshotActive(userID int64) (*models.ActiveReservationResponse, bool) {
	if s.snapshot == nil {
		return nil, false
	}

	reservations, ok := s.snapshot.ActiveReservations()
	if !ok {
		return nil, false
	}

	var active *domain.Reservation
	for _, res := range reservations {
		if res.UserID == userID && res.IsActive() {
			active = res
			break
		}
	}
	if active == nil {
		return nil, false
	}

	facilities, ok := s.snapshot.Facilities()
	if !ok {
		return nil, false
	}

	for _, f := range facilities {
		if f.ID == active.FacilityID {
			return models.FromDomainReservationWithFacility(&domain.ReservationWithFacility{
				Reservation: *active,
				Facility:    *f,
			}), true
		}
	}

	return nil, false
}
