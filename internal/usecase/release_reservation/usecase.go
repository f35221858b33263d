package release_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
	facilityRepo "github.com/m04kA/TTA-ReservationService/internal/infra/storage/facility"
	reservationRepo "github.com/m04kA/TTA-ReservationService/internal/infra/storage/reservation"
)

// Значение label reason для счетчика снятых бронирований
const releaseReasonManual = "manual"

// UseCase use case для освобождения бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	facilityRepo    FacilityRepository
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	facilityRepo FacilityRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		facilityRepo:    facilityRepo,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case освобождения бронирования
//
// Перевод бронирования в released и возврат объекта в available выполняются
// одним коммитом: наблюдатель не может увидеть освобожденное бронирование
// при все еще занятом объекте. Освободить бронирование может только его
// владелец или администратор
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReleaseReservation: actor=%d, role=%s, reservation=%d",
		req.Actor.UserID, req.Actor.Role, req.ReservationID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReleaseReservation: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Reservation

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем бронирование с блокировкой
		reservation, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("ReleaseReservation: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("ReleaseReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}

		// 2.2. Авторизация: владелец или администратор
		if !req.Actor.IsAdmin() && !req.Actor.Owns(reservation.UserID) {
			uc.logger.Warn("ReleaseReservation: actor id=%d is not allowed to release reservation id=%d (owner=%d)",
				req.Actor.UserID, reservation.ID, reservation.UserID)
			return ErrNotAuthorized
		}

		// 2.3. Освобождать можно только активное бронирование
		if !reservation.IsActive() {
			uc.logger.Warn("ReleaseReservation: reservation id=%d is not active (status=%s)",
				reservation.ID, reservation.Status)
			return ErrAlreadyReleased
		}

		// 2.4. Переводим бронирование в released
		// UPDATE с условием status = active: при проигранной гонке получаем
		// not found вместо повторного освобождения
		if err := uc.reservationRepo.Release(txCtx, reservation.ID, domain.ReservationReleased); err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrAlreadyReleased
			}
			uc.logger.Error("ReleaseReservation: failed to release reservation id=%d: %v", reservation.ID, err)
			return fmt.Errorf("%w: failed to release reservation: %v", ErrInternal, err)
		}

		// 2.5. Возвращаем объект в available тем же коммитом
		// Конфликт статуса не фатален: объект могли перевести в maintenance
		err = uc.facilityRepo.UpdateStatusIf(txCtx, reservation.FacilityID, domain.FacilityReserved, domain.FacilityAvailable)
		if err != nil {
			if errors.Is(err, facilityRepo.ErrStatusConflict) {
				uc.logger.Warn("ReleaseReservation: facility id=%d is not in reserved status, skipping release",
					reservation.FacilityID)
			} else {
				uc.logger.Error("ReleaseReservation: failed to release facility id=%d: %v",
					reservation.FacilityID, err)
				return fmt.Errorf("%w: failed to release facility: %v", ErrInternal, err)
			}
		}

		// 2.6. Перечитываем бронирование для ответа (released_at ставит БД)
		result, err = uc.reservationRepo.GetByID(txCtx, reservation.ID)
		if err != nil {
			uc.logger.Error("ReleaseReservation: failed to reload reservation id=%d: %v", reservation.ID, err)
			return fmt.Errorf("%w: failed to reload reservation: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.IncReservationReleased(releaseReasonManual)
	}

	uc.logger.Info("ReleaseReservation: successfully released reservation id=%d, facility=%d",
		result.ID, result.FacilityID)

	// Конвертируем в response
	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		FacilityID:      result.FacilityID,
		ReservationDate: result.ReservationDate,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime,
		Status:          string(result.Status),
		ReleasedAt:      result.ReleasedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
