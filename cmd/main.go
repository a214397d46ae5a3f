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

	cancelBookingHandler "github.com/m04kA/SMC-HouseBooking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-HouseBooking/internal/api/handlers/create_booking"
	decideBookingHandler "github.com/m04kA/SMC-HouseBooking/internal/api/handlers/decide_booking"
	getBookingHandler "github.com/m04kA/SMC-HouseBooking/internal/api/handlers/get_booking"
	getConflictsHandler "github.com/m04kA/SMC-HouseBooking/internal/api/handlers/get_conflicts"
	getDigestHandler "github.com/m04kA/SMC-HouseBooking/internal/api/handlers/get_digest"
	getHistoryHandler "github.com/m04kA/SMC-HouseBooking/internal/api/handlers/get_history"
	getOutstandingHandler "github.com/m04kA/SMC-HouseBooking/internal/api/handlers/get_outstanding"
	reopenBookingHandler "github.com/m04kA/SMC-HouseBooking/internal/api/handlers/reopen_booking"
	updateBookingHandler "github.com/m04kA/SMC-HouseBooking/internal/api/handlers/update_booking"
	"github.com/m04kA/SMC-HouseBooking/internal/api/middleware"
	"github.com/m04kA/SMC-HouseBooking/internal/config"
	"github.com/m04kA/SMC-HouseBooking/internal/infra/notify"
	bookingRepo "github.com/m04kA/SMC-HouseBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-HouseBooking/internal/infra/storage/migrations"
	timelineRepo "github.com/m04kA/SMC-HouseBooking/internal/infra/storage/timeline"
	"github.com/m04kA/SMC-HouseBooking/internal/scheduler"
	bookingsService "github.com/m04kA/SMC-HouseBooking/internal/service/bookings"
	"github.com/m04kA/SMC-HouseBooking/internal/service/resolver"
	digestUC "github.com/m04kA/SMC-HouseBooking/internal/usecase/digest"
	lifecycleUC "github.com/m04kA/SMC-HouseBooking/internal/usecase/lifecycle"
	sweeperUC "github.com/m04kA/SMC-HouseBooking/internal/usecase/sweeper"
	"github.com/m04kA/SMC-HouseBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-HouseBooking/pkg/logger"
	"github.com/m04kA/SMC-HouseBooking/pkg/metrics"
	"github.com/m04kA/SMC-HouseBooking/pkg/timeprovider"
	"github.com/m04kA/SMC-HouseBooking/pkg/txmanager"
)

// notifier объединяет потребности lifecycle и digest
type notifier interface {
	lifecycleUC.Notifier
	digestUC.Notifier
}

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

	log.Info("Starting SMC-HouseBooking...")
	log.Info("Configuration loaded from config.toml")

	rules := cfg.Rules()

	clock, err := timeprovider.New(cfg.Booking.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone: %v", err)
	}

	// Инициализируем метрики (если включены); nil-сборщик безопасен
	var metricsCollector *metrics.Metrics
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

	if cfg.Database.Migrate {
		if err := migrations.Migrate(context.Background(), db, log); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	txMgr := txmanager.NewTransactionManagerWithOptions(wrappedDB, txmanager.Options{
		MaxRetries:  cfg.Booking.MaxTxRetries,
		Backoff:     txmanager.DefaultOptions.Backoff,
		LockTimeout: cfg.Booking.LockTimeout(),
	}, metricsCollector)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	timelineRepository := timelineRepo.NewRepository(wrappedDB)

	// Очередь уведомлений
	var notifications notifier = notify.Nop{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		notifications = notify.NewPublisher(redisClient, cfg.Redis.Queue, log)
		log.Info("Notification queue enabled (addr=%s, queue=%s)", cfg.Redis.Addr, cfg.Redis.Queue)
	} else {
		log.Warn("Redis disabled, notifications are dropped")
	}

	// Инициализируем сервисы
	dateResolver := resolver.NewResolver(bookingRepository, txMgr, metricsCollector, log)
	bookingSvc := bookingsService.NewService(bookingRepository, timelineRepository, log)

	// Инициализируем use cases
	lifecycle := lifecycleUC.NewUseCase(
		bookingRepository,
		timelineRepository,
		dateResolver,
		notifications,
		clock,
		rules,
		metricsCollector,
		log,
	)
	digest := digestUC.NewUseCase(bookingRepository, notifications, clock, rules, log)
	sweeper := sweeperUC.NewUseCase(bookingRepository, lifecycle, clock, metricsCollector, log)

	// Периодические задачи
	sched := scheduler.New(log,
		scheduler.Job{
			Name:     "auto_cancel",
			Interval: time.Duration(cfg.Scheduler.AutoCancelIntervalMinutes) * time.Minute,
			Run: func(ctx context.Context) error {
				_, err := sweeper.RunAutoCancel(ctx)
				return err
			},
		},
		scheduler.Job{
			Name:     "purge",
			Interval: time.Duration(cfg.Scheduler.PurgeIntervalMinutes) * time.Minute,
			Run: func(ctx context.Context) error {
				_, err := sweeper.RunPurge(ctx)
				return err
			},
		},
		scheduler.Job{
			Name:     "digest",
			Interval: time.Duration(cfg.Scheduler.DigestIntervalMinutes) * time.Minute,
			Run: func(ctx context.Context) error {
				_, err := digest.Dispatch(ctx)
				return err
			},
		},
	)
	schedCtx, stopScheduler := context.WithCancel(context.Background())
	sched.Start(schedCtx)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(lifecycle, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(lifecycle, log)
	decideBooking := decideBookingHandler.NewHandler(lifecycle, log)
	cancelBooking := cancelBookingHandler.NewHandler(lifecycle, log)
	reopenBooking := reopenBookingHandler.NewHandler(lifecycle, log)
	getConflicts := getConflictsHandler.NewHandler(bookingSvc, log)
	getOutstanding := getOutstandingHandler.NewHandler(bookingSvc, log)
	getHistory := getHistoryHandler.NewHandler(bookingSvc, log)
	getDigest := getDigestHandler.NewHandler(digest, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix; личность вызывающего обязательна для всех маршрутов
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Identity(rules))

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/decisions", decideBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}/reopen", reopenBooking.Handle).Methods(http.MethodPost)

	// --- Календарь и списки ---
	api.HandleFunc("/conflicts", getConflicts.Handle).Methods(http.MethodGet)
	api.HandleFunc("/parties/{party}/outstanding", getOutstanding.Handle).Methods(http.MethodGet)
	api.HandleFunc("/parties/{party}/history", getHistory.Handle).Methods(http.MethodGet)
	api.HandleFunc("/digest", getDigest.Handle).Methods(http.MethodGet)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	stopScheduler()
	sched.Wait()
	log.Info("Scheduler stopped")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
