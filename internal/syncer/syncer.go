package syncer

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/m04kA/TTA-ReservationService/internal/domain"
)

const (
	keyFacilities         = "facilities"
	keyActiveReservations = "reservations:active"

	cleanupInterval = time.Minute
)

// Syncer периодически перечитывает каталог объектов и активные бронирования
// из БД в локальный снапшот. Снапшот обслуживает read-пути (витрину доступных
// объектов) и может отставать от БД не больше чем на интервал опроса: все
// решения о записи принимаются заново внутри транзакции, снапшот на них
// не влияет
type Syncer struct {
	facilityRepo    FacilityRepository
	reservationRepo ReservationRepository
	store           *cache.Cache
	interval        time.Duration
	logger          Logger
}

// New создает новый Syncer. ttl задает срок годности снапшота: если опрос
// перестал успевать, читатели переключаются на прямые запросы к БД
func New(
	facilityRepo FacilityRepository,
	reservationRepo ReservationRepository,
	interval time.Duration,
	ttl time.Duration,
	logger Logger,
) *Syncer {
	return &Syncer{
		facilityRepo:    facilityRepo,
		reservationRepo: reservationRepo,
		store:           cache.New(ttl, cleanupInterval),
		interval:        interval,
		logger:          logger,
	}
}

// Start запускает цикл опроса. Блокируется до отмены контекста
func (s *Syncer) Start(ctx context.Context) {
	s.logger.Info("Syncer: started with interval=%s", s.interval)

	// Первый снапшот без ожидания тика
	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Syncer: stopped")
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// Facilities возвращает снапшот каталога объектов. Второе значение false
// означает, что снапшот отсутствует или протух
func (s *Syncer) Facilities() ([]*domain.Facility, bool) {
	v, found := s.store.Get(keyFacilities)
	if !found {
		return nil, false
	}

	facilities, ok := v.([]*domain.Facility)
	return facilities, ok
}

// ActiveReservations возвращает снапшот активных бронирований
func (s *Syncer) ActiveReservations() ([]*domain.Reservation, bool) {
	v, found := s.store.Get(keyActiveReservations)
	if !found {
		return nil, false
	}

	reservations, ok := v.([]*domain.Reservation)
	return reservations, ok
}

// refresh перечитывает данные из БД. Ошибка одного источника не мешает
// обновлению другого: старый снапшот доживает свой TTL
func (s *Syncer) refresh(ctx context.Context) {
	facilities, err := s.facilityRepo.List(ctx, domain.FacilityFilter{})
	if err != nil {
		s.logger.Error("Syncer: failed to refresh facilities: %v", err)
	} else {
		s.store.SetDefault(keyFacilities, facilities)
	}

	reservations, err := s.reservationRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("Syncer: failed to refresh active reservations: %v", err)
		return
	}
	s.store.SetDefault(keyActiveReservations, reservations)
}
