package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper по расписанию переводит бронирования с истекшим окном в expired
// и возвращает их объекты в available. Работает поверх той же сериализуемой
// транзакции, что и ручное освобождение, поэтому не конкурирует с ним за
// корректность, только за блокировки
type Sweeper struct {
	service  ReservationsService
	schedule string
	cron     *cron.Cron
	logger   Logger
}

// New создает новый Sweeper. schedule - выражение в стандартном cron-формате,
// например "*/5 * * * *"
func New(service ReservationsService, schedule string, logger Logger) *Sweeper {
	return &Sweeper{
		service:  service,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start регистрирует задачу и запускает планировщик
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("sweeper: failed to register job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Sweeper: started with schedule %q", s.schedule)
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущей задачи
func (s *Sweeper) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Sweeper: stopped")
}

func (s *Sweeper) sweep(ctx context.Context) {
	released, err := s.service.ReleaseExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("Sweeper: failed to release expired reservations: %v", err)
		return
	}

	if released > 0 {
		s.logger.Info("Sweeper: released %d expired reservations", released)
	}
}
