package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trainbook/core/internal/config"
	"github.com/trainbook/core/internal/db"
	"github.com/trainbook/core/internal/handler"
	"github.com/trainbook/core/internal/model"
	"github.com/trainbook/core/internal/notify"
	"github.com/trainbook/core/internal/repository"
	"github.com/trainbook/core/internal/scheduler"
	"github.com/trainbook/core/internal/service"
)

func main() {
	// 1. Конфиг из env.
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(cfg)
	if err != nil {
		log.Fatalf("init db: %v", err)
	}

	// 3. Миграции моделей.
	if err := model.AutoMigrate(gormDB); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("sql DB: %v", err)
	}
	defer sqlDB.Close()

	// 4. Репозитории (реализации на GORM).
	trainerRepo := repository.NewGormTrainerRepository(gormDB)
	clientRepo := repository.NewGormClientRepository(gormDB)
	enrollmentRepo := repository.NewGormEnrollmentRepository(gormDB)
	shiftRepo := repository.NewGormShiftRepository(gormDB)
	overrideRepo := repository.NewGormOverrideRepository(gormDB)
	bookingRepo := repository.NewGormBookingRepository(gormDB)

	// 5. Redis и отложенные напоминания.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	tasks := scheduler.NewRedisScheduler(rdb)
	reminders := service.NewReminderBridge(tasks, cfg.Reminder.FireHour)

	notifier, err := notify.NewTelegramNotifier(cfg.Telegram.Token)
	if err != nil {
		log.Fatalf("init telegram: %v", err)
	}

	// 6. Сервисы.
	identitySvc := service.NewIdentityService(gormDB, trainerRepo, clientRepo, enrollmentRepo)
	availabilitySvc := service.NewAvailabilityService(trainerRepo, overrideRepo, bookingRepo)
	bookingSvc := service.NewBookingService(gormDB, trainerRepo, clientRepo, enrollmentRepo, overrideRepo, bookingRepo, reminders)
	cancelSvc := service.NewCancelService(gormDB, trainerRepo, clientRepo, enrollmentRepo, overrideRepo, bookingRepo, reminders, notifier)
	shiftSvc := service.NewShiftService(gormDB, trainerRepo, shiftRepo, overrideRepo)

	// 7. Фоновые процессы: доставка напоминаний и чистка устаревших дат.
	worker := scheduler.NewWorker(tasks, notifier, time.Duration(cfg.Reminder.PollIntervalSec)*time.Second)
	worker.Start()
	defer worker.Stop()

	if cfg.Reminder.SweepEnabled {
		sweeper := scheduler.NewRetentionSweeper(overrideRepo, bookingRepo)
		sweeper.Start()
		defer sweeper.Stop()
	}

	// 8. HTTP-шлюз.
	h, err := handler.NewHandler(cfg, identitySvc, availabilitySvc, bookingSvc, cancelSvc, shiftSvc)
	if err != nil {
		log.Fatalf("init handler: %v", err)
	}
	h.RegisterRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      h.Mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Printf("core HTTP server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve: %v", err)
		}
	}()

	// 9. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}
