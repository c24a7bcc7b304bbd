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
	"github.com/redis/go-redis/v9"

	bookingsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/bookings"
	checkRoleAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/check_role_availability"
	createBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_booking"
	exceptionsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/exceptions"
	findAvailableStaffHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/find_available_staff"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_available_slots"
	getStaffSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_staff_slots"
	reassignBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/reassign_booking"
	roleShiftsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/role_shifts"
	rolesHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/roles"
	schedulesHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/schedules"
	staffHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/staff"
	updateBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_booking"
	validateBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/validate_booking_request"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	slotsCacheLib "github.com/m04kA/SMC-SchedulingService/internal/infra/cache/slots"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	exceptionRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/exception"
	roleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/role"
	roleShiftRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/roleshift"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	staffRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/staff"
	catalogServiceClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
	notificationsClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/notifications"
	availabilityService "github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	exceptionsService "github.com/m04kA/SMC-SchedulingService/internal/service/exceptions"
	rolesService "github.com/m04kA/SMC-SchedulingService/internal/service/roles"
	schedulesService "github.com/m04kA/SMC-SchedulingService/internal/service/schedules"
	shiftsService "github.com/m04kA/SMC-SchedulingService/internal/service/shifts"
	staffService "github.com/m04kA/SMC-SchedulingService/internal/service/staff"
	checkRoleAvailabilityUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/check_role_availability"
	createBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
	findAvailableStaffUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/find_available_staff"
	getAvailableSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	getStaffSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_staff_slots"
	reassignBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/reassign_booking"
	updateBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/update_booking"
	validateBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/validate_booking_request"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
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

	log.Info("Starting SMC-SchedulingService...")
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

	// Инициализируем клиент каталога
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Опциональные зависимости: Redis-кеш слотов и публикация событий.
	// Выключенная зависимость остаётся nil-интерфейсом, сервисы это учитывают
	var (
		slotsInvalidator bookingsService.SlotsCache
		slotsReadCache   getAvailableSlotsUC.SlotsCache
		eventsPublisher  bookingsService.EventPublisher
	)

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer redisClient.Close()

		cache := slotsCacheLib.NewCache(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		slotsInvalidator = cache
		slotsReadCache = cache
		log.Info("Slots cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
	}

	if cfg.RabbitMQ.Enabled {
		publisher, err := notificationsClient.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq: %v", err)
		}
		defer publisher.Close()

		eventsPublisher = publisher
		log.Info("Booking events publisher enabled (exchange=%s)", cfg.RabbitMQ.Exchange)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository   *bookingRepo.Repository
		roleRepository      *roleRepo.Repository
		roleShiftRepository *roleShiftRepo.Repository
		exceptionRepository *exceptionRepo.Repository
		staffRepository     *staffRepo.Repository
		scheduleRepository  *scheduleRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		roleRepository = roleRepo.NewRepository(wrappedDB)
		roleShiftRepository = roleShiftRepo.NewRepository(wrappedDB)
		exceptionRepository = exceptionRepo.NewRepository(wrappedDB)
		staffRepository = staffRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		bookingRepository = bookingRepo.NewRepository(db)
		roleRepository = roleRepo.NewRepository(db)
		roleShiftRepository = roleShiftRepo.NewRepository(db)
		exceptionRepository = exceptionRepo.NewRepository(db)
		staffRepository = staffRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		roleRepository,
		roleShiftRepository,
		exceptionRepository,
		bookingRepository,
		staffRepository,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		staffRepository,
		slotsInvalidator,
		eventsPublisher,
		txMgr,
		log,
	)
	roleSvc := rolesService.NewService(roleRepository, log)
	shiftSvc := shiftsService.NewService(roleShiftRepository, roleRepository, txMgr, log)
	exceptionSvc := exceptionsService.NewService(exceptionRepository, roleRepository, log)
	staffSvc := staffService.NewService(staffRepository, txMgr, log)
	scheduleSvc := schedulesService.NewService(
		scheduleRepository,
		roleShiftRepository,
		roleRepository,
		staffRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		staffRepository,
		availabilitySvc,
		scheduleSvc,
		catalogClient,
		slotsInvalidator,
		eventsPublisher,
		txMgr,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		staffRepository,
		availabilitySvc,
		scheduleSvc,
		slotsInvalidator,
		eventsPublisher,
		txMgr,
		log,
	)
	reassignBookingUseCase := reassignBookingUC.NewUseCase(
		bookingRepository,
		staffRepository,
		scheduleSvc,
		slotsInvalidator,
		eventsPublisher,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		availabilitySvc,
		catalogClient,
		slotsReadCache,
		log,
	)
	getStaffSlotsUseCase := getStaffSlotsUC.NewUseCase(availabilitySvc, log)
	validateBookingUseCase := validateBookingUC.NewUseCase(
		availabilitySvc,
		scheduleSvc,
		staffRepository,
		catalogClient,
		log,
	)
	findAvailableStaffUseCase := findAvailableStaffUC.NewUseCase(
		roleRepository,
		scheduleSvc,
		staffRepository,
		catalogClient,
		log,
	)
	checkRoleAvailabilityUseCase := checkRoleAvailabilityUC.NewUseCase(
		roleRepository,
		roleShiftRepository,
		exceptionRepository,
		bookingRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	reassignBooking := reassignBookingHandler.NewHandler(reassignBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getStaffSlots := getStaffSlotsHandler.NewHandler(getStaffSlotsUseCase, log)
	validateBooking := validateBookingHandler.NewHandler(validateBookingUseCase, log)
	findAvailableStaff := findAvailableStaffHandler.NewHandler(findAvailableStaffUseCase, log)
	checkRoleAvailability := checkRoleAvailabilityHandler.NewHandler(checkRoleAvailabilityUseCase, log)
	bookings := bookingsHandler.NewHandler(bookingSvc, log)
	roles := rolesHandler.NewHandler(roleSvc, log)
	roleShifts := roleShiftsHandler.NewHandler(shiftSvc, log)
	exceptions := exceptionsHandler.NewHandler(exceptionSvc, log)
	staff := staffHandler.NewHandler(staffSvc, log)
	schedules := schedulesHandler.NewHandler(scheduleSvc, log)

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

	// Получение доступных слотов для бронирования
	api.HandleFunc("/vendors/{vendorId}/items/{itemId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Поиск сотрудников, доступных на конкретное время
	api.HandleFunc("/vendors/{vendorId}/items/{itemId}/available-staff",
		findAvailableStaff.Handle).Methods(http.MethodGet)

	// Свободные интервалы конкретного сотрудника на дату
	api.HandleFunc("/vendors/{vendorId}/staff/{staffId}/available-slots",
		getStaffSlots.Handle).Methods(http.MethodGet)

	// Проверка доступности роли в интервале
	api.HandleFunc("/vendors/{vendorId}/roles/{roleId}/availability",
		checkRoleAvailability.Handle).Methods(http.MethodGet)

	// Предварительная проверка заявки без записи
	api.HandleFunc("/bookings/validate", validateBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", bookings.HandleGet).Methods(http.MethodGet)

	// Перенос бронирования на другое время
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", bookings.HandleCancel).Methods(http.MethodPatch)

	// Смена статуса бронирования
	protected.HandleFunc("/bookings/{bookingId}/status", bookings.HandleUpdateStatus).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/customers/{customerId}/bookings", bookings.HandleCustomerList).Methods(http.MethodGet)

	// --- Управление вендором (для менеджеров) ---
	// Список бронирований вендора
	protected.HandleFunc("/vendors/{vendorId}/bookings", bookings.HandleVendorList).Methods(http.MethodGet)

	// Переназначение бронирования на другого сотрудника
	protected.HandleFunc("/vendors/{vendorId}/bookings/{bookingId}/reassign",
		reassignBooking.Handle).Methods(http.MethodPost)

	// Роли
	protected.HandleFunc("/vendors/{vendorId}/roles", roles.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/vendors/{vendorId}/roles", roles.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/vendors/{vendorId}/roles/{roleId}", roles.HandleGet).Methods(http.MethodGet)
	protected.HandleFunc("/vendors/{vendorId}/roles/{roleId}", roles.HandleUpdate).Methods(http.MethodPut)
	protected.HandleFunc("/vendors/{vendorId}/roles/{roleId}", roles.HandleDelete).Methods(http.MethodDelete)

	// Шаблоны смен ролей
	protected.HandleFunc("/vendors/{vendorId}/roles/{roleId}/shifts/bulk",
		roleShifts.HandleBulkCreate).Methods(http.MethodPost)
	protected.HandleFunc("/vendors/{vendorId}/roles/{roleId}/shifts/check-conflicts",
		roleShifts.HandleCheckConflicts).Methods(http.MethodPost)
	protected.HandleFunc("/vendors/{vendorId}/roles/{roleId}/shifts",
		roleShifts.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/vendors/{vendorId}/roles/{roleId}/shifts",
		roleShifts.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/vendors/{vendorId}/roles/{roleId}/shifts/{shiftId}",
		roleShifts.HandleUpdate).Methods(http.MethodPut)
	protected.HandleFunc("/vendors/{vendorId}/roles/{roleId}/shifts/{shiftId}",
		roleShifts.HandleDelete).Methods(http.MethodDelete)

	// Исключения расписания
	protected.HandleFunc("/vendors/{vendorId}/exceptions", exceptions.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/vendors/{vendorId}/exceptions", exceptions.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/vendors/{vendorId}/exceptions/{exceptionId}",
		exceptions.HandleUpdate).Methods(http.MethodPut)
	protected.HandleFunc("/vendors/{vendorId}/exceptions/{exceptionId}",
		exceptions.HandleDelete).Methods(http.MethodDelete)

	// Сотрудники и их рабочие календари
	protected.HandleFunc("/vendors/{vendorId}/staff", staff.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/vendors/{vendorId}/staff", staff.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/vendors/{vendorId}/staff/{staffId}", staff.HandleGet).Methods(http.MethodGet)
	protected.HandleFunc("/vendors/{vendorId}/staff/{staffId}", staff.HandleUpdate).Methods(http.MethodPut)
	protected.HandleFunc("/vendors/{vendorId}/staff/{staffId}/shifts",
		staff.HandleAddShift).Methods(http.MethodPost)
	protected.HandleFunc("/vendors/{vendorId}/staff/{staffId}/shifts",
		staff.HandleReplaceShifts).Methods(http.MethodPut)
	protected.HandleFunc("/vendors/{vendorId}/staff/{staffId}/shifts/{shiftId}",
		staff.HandleUpdateShift).Methods(http.MethodPut)
	protected.HandleFunc("/vendors/{vendorId}/staff/{staffId}/shifts/{shiftId}",
		staff.HandleDeleteShift).Methods(http.MethodDelete)
	protected.HandleFunc("/vendors/{vendorId}/staff/{staffId}/workload",
		staff.HandleWorkload).Methods(http.MethodGet)

	// Назначения расписаний
	protected.HandleFunc("/vendors/{vendorId}/schedules", schedules.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/vendors/{vendorId}/schedules/{entryId}",
		schedules.HandleUpdate).Methods(http.MethodPut)
	protected.HandleFunc("/vendors/{vendorId}/schedules/{entryId}",
		schedules.HandleDelete).Methods(http.MethodDelete)
	protected.HandleFunc("/vendors/{vendorId}/roles/{roleId}/schedules",
		schedules.HandleListByRole).Methods(http.MethodGet)
	protected.HandleFunc("/vendors/{vendorId}/roles/{roleId}/schedules/generate",
		schedules.HandleGenerate).Methods(http.MethodPost)
	protected.HandleFunc("/vendors/{vendorId}/roles/{roleId}/schedules/publish",
		schedules.HandlePublish).Methods(http.MethodPost)
	protected.HandleFunc("/vendors/{vendorId}/staff/{staffId}/schedules",
		schedules.HandleListByStaff).Methods(http.MethodGet)

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
