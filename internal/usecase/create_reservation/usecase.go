package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
	facilityRepo "github.com/m04kA/TTA-ReservationService/internal/infra/storage/facility"
	reservationRepo "github.com/m04kA/TTA-ReservationService/internal/infra/storage/reservation"
	userClient "github.com/m04kA/TTA-ReservationService/internal/integrations/userservice"
)

// Значения label kind для счетчика проигранных конфликтов
const (
	conflictUserActive    = "user_active"
	conflictFacilityTaken = "facility_taken"
)

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	facilityRepo    FacilityRepository
	userClient      UserServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	facilityRepo FacilityRepository,
	userClient UserServiceClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		facilityRepo:    facilityRepo,
		userClient:      userClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования
//
// Проверки "нет активного бронирования" и "объект available" выполняются
// внутри сериализуемой транзакции заново, даже если UI уже проверял их по
// снапшоту: смена статуса объекта делается условным UPDATE, поэтому из двух
// конкурирующих сессий бронирование получит ровно одна, вторая увидит
// ErrFacilityUnavailable. Создание строки бронирования и перевод объекта в
// reserved фиксируются одним коммитом - наблюдатель не может увидеть одно
// без другого
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, facility=%d, date=%s, slot=%s",
		req.Actor.UserID, req.FacilityID, req.Date.Format(domain.DateFormat), req.SlotStart)

	// 1. Валидация входных данных (включая принадлежность слота фиксированному набору)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация даты
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateReservation: date validation failed: user=%d, date=%s",
			req.Actor.UserID, req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 4. Проверяем пользователя и его статус одобрения
	user, err := uc.userClient.GetUser(ctx, req.Actor.UserID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateReservation: user id=%d not found", req.Actor.UserID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("CreateReservation: failed to get user id=%d: %v", req.Actor.UserID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}

	if !user.IsApproved() {
		uc.logger.Warn("CreateReservation: user id=%d is not approved (status=%s)", user.ID, user.Status)
		return nil, ErrUserNotApproved
	}

	// 5. Вычисляем конец слота: начало + фиксированный час
	slotEnd, err := domain.SlotEnd(req.SlotStart)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to compute slot end for %s: %v", req.SlotStart, err)
		return nil, fmt.Errorf("%w: failed to compute slot end: %v", ErrInternal, err)
	}

	// Переменные для хранения результата
	var (
		result   *domain.Reservation
		facility *domain.Facility
	)

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Commit-time re-check: у пользователя нет активного бронирования
		// (SELECT ... FOR UPDATE внутри транзакции)
		_, err := uc.reservationRepo.GetActiveByUserID(txCtx, req.Actor.UserID)
		if err == nil {
			uc.logger.Warn("CreateReservation: user id=%d already has an active reservation", req.Actor.UserID)
			return ErrAlreadyReserved
		}
		if !errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Error("CreateReservation: failed to check active reservation: %v", err)
			return fmt.Errorf("%w: failed to check active reservation: %v", ErrInternal, err)
		}

		// 6.2. Получаем объект с блокировкой
		facility, err = uc.facilityRepo.GetByID(txCtx, req.FacilityID)
		if err != nil {
			if errors.Is(err, facilityRepo.ErrFacilityNotFound) {
				uc.logger.Warn("CreateReservation: facility id=%d not found", req.FacilityID)
				return ErrFacilityNotFound
			}
			uc.logger.Error("CreateReservation: failed to get facility id=%d: %v", req.FacilityID, err)
			return fmt.Errorf("%w: failed to get facility: %v", ErrInternal, err)
		}

		// 6.3. Commit-time re-check: условный перевод available -> reserved
		// Выполняется одним UPDATE с условием на текущий статус - проигравшая
		// гонку сессия получает ErrStatusConflict, а не молчаливый double-booking
		err = uc.facilityRepo.UpdateStatusIf(txCtx, req.FacilityID, domain.FacilityAvailable, domain.FacilityReserved)
		if err != nil {
			if errors.Is(err, facilityRepo.ErrStatusConflict) {
				uc.logger.Warn("CreateReservation: facility id=%d is not available (status=%s)",
					req.FacilityID, facility.Status)
				return ErrFacilityUnavailable
			}
			uc.logger.Error("CreateReservation: failed to reserve facility id=%d: %v", req.FacilityID, err)
			return fmt.Errorf("%w: failed to reserve facility: %v", ErrInternal, err)
		}

		// 6.4. Создаем бронирование в той же транзакции
		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			UserID:          req.Actor.UserID,
			FacilityID:      req.FacilityID,
			ReservationDate: req.Date,
			StartTime:       req.SlotStart,
			EndTime:         slotEnd,
			Status:          domain.ReservationActive,
		})
		if err != nil {
			// Partial unique индексы - последний рубеж тех же инвариантов
			if errors.Is(err, reservationRepo.ErrUserHasActive) {
				return ErrAlreadyReserved
			}
			if errors.Is(err, reservationRepo.ErrFacilityTaken) {
				return ErrFacilityUnavailable
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Счетчики конфликтов инкрементируются после выхода из транзакции,
		// чтобы retry по 40001 не считался дважды
		if uc.metrics != nil {
			switch {
			case errors.Is(err, ErrAlreadyReserved):
				uc.metrics.IncReservationConflict(conflictUserActive)
			case errors.Is(err, ErrFacilityUnavailable):
				uc.metrics.IncReservationConflict(conflictFacilityTaken)
			}
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.IncReservationCreated(string(facility.Category))
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d for user=%d facility=%d",
		result.ID, result.UserID, result.FacilityID)

	// Конвертируем в response
	return &Response{
		ID:               result.ID,
		UserID:           result.UserID,
		FacilityID:       result.FacilityID,
		ReservationDate:  result.ReservationDate,
		StartTime:        result.StartTime,
		EndTime:          result.EndTime,
		Status:           string(result.Status),
		FacilityCategory: string(facility.Category),
		FacilityLabel:    facility.UnitLabel,
		PickupLocation:   facility.PickupLocation,
		CreatedAt:        result.CreatedAt,
		UpdatedAt:        result.UpdatedAt,
	}, nil
}
