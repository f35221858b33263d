package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	createReservationHandler "github.com/m04kA/TTA-ReservationService/internal/api/handlers/create_reservation"
	getActiveReservationHandler "github.com/m04kA/TTA-ReservationService/internal/api/handlers/get_active_reservation"
	getAvailableFacilitiesHandler "github.com/m04kA/TTA-ReservationService/internal/api/handlers/get_available_facilities"
	getFacilityHandler "github.com/m04kA/TTA-ReservationService/internal/api/handlers/get_facility"
	getFacilityRosterHandler "github.com/m04kA/TTA-ReservationService/internal/api/handlers/get_facility_roster"
	getUserReservationsHandler "github.com/m04kA/TTA-ReservationService/internal/api/handlers/get_user_reservations"
	releaseReservationHandler "github.com/m04kA/TTA-ReservationService/internal/api/handlers/release_reservation"
	"github.com/m04kA/TTA-ReservationService/internal/api/middleware"
	"github.com/m04kA/TTA-ReservationService/internal/config"
	facilityRepo "github.com/m04kA/TTA-ReservationService/internal/infra/storage/facility"
	reservationRepo "github.com/m04kA/TTA-ReservationService/internal/infra/storage/reservation"
	userServiceClient "github.com/m04kA/TTA-ReservationService/internal/integrations/userservice"
	facilitiesService "github.com/m04kA/TTA-ReservationService/internal/service/facilities"
	reservationsService "github.com/m04kA/TTA-ReservationService/internal/service/reservations"
	"github.com/m04kA/TTA-ReservationService/internal/sweeper"
	"github.com/m04kA/TTA-ReservationService/internal/syncer"
	createReservationUC "github.com/m04kA/TTA-ReservationService/internal/usecase/create_reservation"
	releaseReservationUC "github.com/m04kA/TTA-ReservationService/internal/usecase/release_reservation"
	"github.com/m04kA/TTA-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/TTA-ReservationService/pkg/logger"
	"github.com/m04kA/TTA-ReservationService/pkg/metrics"
	"github.com/m04kA/TTA-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/TTA-ReservationService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting TTA-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционного клиента
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (UserService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		facilityRepository    *facilityRepo.Repository
		reservationRepository *reservationRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		facilityRepository = facilityRepo.NewRepository(wrappedDB)
		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		facilityRepository = facilityRepo.NewRepository(db)
		reservationRepository = reservationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Контекст фоновых задач: останавливает syncer и sweeper при завершении
	backgroundCtx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	// Инициализируем Polling Sync Client (если включен)
	var (
		facilitySnapshot    facilitiesService.Snapshot
		reservationSnapshot reservationsService.Snapshot
	)
	if cfg.Sync.Enabled {
		sync := syncer.New(
			facilityRepository,
			reservationRepository,
			time.Duration(cfg.Sync.IntervalSeconds)*time.Second,
			time.Duration(cfg.Sync.SnapshotTTLSeconds)*time.Second,
			log,
		)
		facilitySnapshot = sync
		reservationSnapshot = sync
		go sync.Start(backgroundCtx)
		log.Info("Polling sync client started (interval=%ds, ttl=%ds)",
			cfg.Sync.IntervalSeconds, cfg.Sync.SnapshotTTLSeconds)
	}

	// Доменные счетчики передаются только при включенных метриках:
	// nil-интерфейс отключает инкременты
	var (
		reservationCounters reservationsService.Metrics
		createCounters      createReservationUC.Metrics
		releaseCounters     releaseReservationUC.Metrics
	)
	if cfg.Metrics.Enabled {
		reservationCounters = metricsCollector
		createCounters = metricsCollector
		releaseCounters = metricsCollector
	}

	// Инициализируем сервисы
	facilitiesSvc := facilitiesService.NewService(
		facilityRepository,
		reservationRepository,
		facilitySnapshot,
		log,
	)
	reservationsSvc := reservationsService.NewService(
		reservationRepository,
		facilityRepository,
		txMgr,
		reservationSnapshot,
		reservationCounters,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		facilityRepository,
		userClient,
		txMgr,
		createCounters,
		log,
	)
	releaseReservationUseCase := releaseReservationUC.NewUseCase(
		reservationRepository,
		facilityRepository,
		txMgr,
		releaseCounters,
		log,
	)

	// Запускаем sweeper истекших бронирований (если включен)
	if cfg.Sweeper.Enabled {
		sw := sweeper.New(reservationsSvc, cfg.Sweeper.Schedule, log)
		if err := sw.Start(backgroundCtx); err != nil {
			log.Fatal("Failed to start sweeper: %v", err)
		}
		defer sw.Stop()
	}

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	releaseReservation := releaseReservationHandler.NewHandler(releaseReservationUseCase, log)
	getAvailableFacilities := getAvailableFacilitiesHandler.NewHandler(facilitiesSvc, log)
	getFacility := getFacilityHandler.NewHandler(facilitiesSvc, log)
	getFacilityRoster := getFacilityRosterHandler.NewHandler(facilitiesSvc, log)
	getActiveReservation := getActiveReservationHandler.NewHandler(reservationsSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Ограничение частоты запросов
	if cfg.Server.RateLimitPerSec > 0 {
		r.Use(middleware.RateLimit(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst))
		log.Info("Rate limiting enabled (%.1f req/s, burst=%d)",
			cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst)
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Витрина доступных объектов
	api.HandleFunc("/facilities/available", getAvailableFacilities.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Освобождение бронирования
	protected.HandleFunc("/reservations/{reservationId}/release", releaseReservation.Handle).Methods(http.MethodPatch)

	// Активное бронирование пользователя
	protected.HandleFunc("/users/{userId}/reservations/active", getActiveReservation.Handle).Methods(http.MethodGet)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Реестр объектов ---
	// Полный реестр (для администраторов)
	protected.HandleFunc("/facilities", getFacilityRoster.Handle).Methods(http.MethodGet)

	// Карточка объекта (администратор или держатель активного бронирования)
	protected.HandleFunc("/facilities/{facilityId:[0-9]+}", getFacility.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи
	cancelBackground()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
