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

	approvePaymentHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/approve_payment"
	cancelReservationHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/cancel_reservation"
	createTimeBlockHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/create_time_block"
	deleteExceptionDateHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/delete_exception_date"
	getAvailableTimesHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/get_available_times"
	getBusinessReservationsHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/get_business_reservations"
	getBusinessScheduleHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/get_business_schedule"
	getCustomerReservationsHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/get_customer_reservations"
	getDisabledDatesHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/get_disabled_dates"
	getMonthlyScheduleHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/get_monthly_schedule"
	getReservationHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/get_reservation"
	releaseTimeBlockHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/release_time_block"
	requestPaymentHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/request_payment"
	setExceptionDateHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/set_exception_date"
	updateBusinessScheduleHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/update_business_schedule"
	updateReservationStatusHandler "github.com/petmily/PM-ReservationService/internal/api/handlers/update_reservation_status"
	"github.com/petmily/PM-ReservationService/internal/api/middleware"
	"github.com/petmily/PM-ReservationService/internal/app"
	"github.com/petmily/PM-ReservationService/internal/config"
	paymentRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/payment"
	reservationRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/reservation"
	scheduleRepo "github.com/petmily/PM-ReservationService/internal/infra/storage/schedule"
	catalogClient "github.com/petmily/PM-ReservationService/internal/integrations/catalog"
	notifierClient "github.com/petmily/PM-ReservationService/internal/integrations/notifier"
	paygateClient "github.com/petmily/PM-ReservationService/internal/integrations/paygate"
	paymentsService "github.com/petmily/PM-ReservationService/internal/service/payments"
	reservationsService "github.com/petmily/PM-ReservationService/internal/service/reservations"
	scheduleService "github.com/petmily/PM-ReservationService/internal/service/schedule"
	createReservationUC "github.com/petmily/PM-ReservationService/internal/usecase/create_reservation"
	getAvailableTimesUC "github.com/petmily/PM-ReservationService/internal/usecase/get_available_times"
	getDisabledDatesUC "github.com/petmily/PM-ReservationService/internal/usecase/get_disabled_dates"
	getMonthlyScheduleUC "github.com/petmily/PM-ReservationService/internal/usecase/get_monthly_schedule"
	"github.com/petmily/PM-ReservationService/pkg/dbmetrics"
	"github.com/petmily/PM-ReservationService/pkg/logger"
	"github.com/petmily/PM-ReservationService/pkg/metrics"
	"github.com/petmily/PM-ReservationService/pkg/simpletxmanager"
	"github.com/petmily/PM-ReservationService/pkg/txmanager"
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

	log.Info("Starting PM-ReservationService...")
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

	// Применяем миграции
	migrator, err := app.NewMigrator(db, cfg.Database.MigrationsPath, log)
	if err != nil {
		log.Fatal("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(context.Background()); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}

	// Инициализируем интеграционных клиентов
	catalog := catalogClient.NewClient(
		cfg.Catalog.URL,
		time.Duration(cfg.Catalog.Timeout)*time.Second,
		log,
	)
	paygate := paygateClient.NewClient(
		cfg.Paygate.URL,
		cfg.Paygate.SecretKey,
		time.Duration(cfg.Paygate.Timeout)*time.Second,
		log,
	)
	notifier := notifierClient.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (Catalog=%s, Paygate=%s, Notifier=%s)",
		cfg.Catalog.URL, cfg.Paygate.URL, cfg.Notifier.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
		paymentRepository     *paymentRepo.Repository
	)

	// Интерфейс transaction manager, общий для сервисов и usecases
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		paymentRepository,
		catalog,
		paygate,
		notifier,
		txMgr,
		&reservationsService.RealTimeProvider{},
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		reservationRepository,
		catalog,
		txMgr,
		&scheduleService.RealTimeProvider{},
		log,
	)
	paymentSvc := paymentsService.NewService(
		paymentRepository,
		catalog,
		paygate,
		&paymentsService.RealTimeProvider{},
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		paymentRepository,
		scheduleRepository,
		catalog,
		paygate,
		notifier,
		txMgr,
		log,
	)
	getAvailableTimesUseCase := getAvailableTimesUC.NewUseCase(
		scheduleRepository,
		reservationRepository,
		catalog,
		log,
	)
	getMonthlyScheduleUseCase := getMonthlyScheduleUC.NewUseCase(
		scheduleRepository,
		reservationRepository,
		log,
	)
	getDisabledDatesUseCase := getDisabledDatesUC.NewUseCase(
		scheduleRepository,
		reservationRepository,
		catalog,
		log,
	)

	// Инициализируем handlers
	getAvailableTimes := getAvailableTimesHandler.NewHandler(getAvailableTimesUseCase, log)
	getMonthlySchedule := getMonthlyScheduleHandler.NewHandler(getMonthlyScheduleUseCase, log)
	getDisabledDates := getDisabledDatesHandler.NewHandler(getDisabledDatesUseCase, log)
	getBusinessSchedule := getBusinessScheduleHandler.NewHandler(scheduleSvc, log)
	updateBusinessSchedule := updateBusinessScheduleHandler.NewHandler(scheduleSvc, log)
	setExceptionDate := setExceptionDateHandler.NewHandler(scheduleSvc, log)
	deleteExceptionDate := deleteExceptionDateHandler.NewHandler(scheduleSvc, log)
	createTimeBlock := createTimeBlockHandler.NewHandler(scheduleSvc, log)
	releaseTimeBlock := releaseTimeBlockHandler.NewHandler(scheduleSvc, log)
	requestPayment := requestPaymentHandler.NewHandler(paymentSvc, log)
	approvePayment := approvePaymentHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	updateReservationStatus := updateReservationStatusHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	getCustomerReservations := getCustomerReservationsHandler.NewHandler(reservationSvc, log)
	getBusinessReservations := getBusinessReservationsHandler.NewHandler(reservationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
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

	// Доступные времена начала услуги на дату
	api.HandleFunc("/businesses/{businessId}/available-times",
		getAvailableTimes.Handle).Methods(http.MethodGet)

	// Посуточная сводка месяца
	api.HandleFunc("/businesses/{businessId}/monthly-schedule",
		getMonthlySchedule.Handle).Methods(http.MethodGet)

	// Полностью недоступные даты для услуги
	api.HandleFunc("/services/{serviceId}/disabled-dates",
		getDisabledDates.Handle).Methods(http.MethodGet)

	// Недельный шаблон с ближайшими исключениями
	api.HandleFunc("/businesses/{businessId}/schedule",
		getBusinessSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Расписание ---
	// Полная замена недельного шаблона, исключения применяются той же транзакцией
	protected.HandleFunc("/businesses/{businessId}/schedule",
		updateBusinessSchedule.Handle).Methods(http.MethodPut)

	// Исключения на даты
	protected.HandleFunc("/businesses/{businessId}/exceptions",
		setExceptionDate.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/exceptions/{date}",
		deleteExceptionDate.Handle).Methods(http.MethodDelete)

	// Административные блокировки времени
	protected.HandleFunc("/businesses/{businessId}/time-blocks",
		createTimeBlock.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/time-blocks/{blockId}",
		releaseTimeBlock.Handle).Methods(http.MethodDelete)

	// --- Платежи и создание бронирования ---
	protected.HandleFunc("/payments/request", requestPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/payments/approve", approvePayment.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	protected.HandleFunc("/reservations/{reservationId}",
		getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/status",
		updateReservationStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}",
		cancelReservation.Handle).Methods(http.MethodDelete)

	// История клиента и календарь бизнеса
	protected.HandleFunc("/customers/{customerId}/reservations",
		getCustomerReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/reservations",
		getBusinessReservations.Handle).Methods(http.MethodGet)

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
