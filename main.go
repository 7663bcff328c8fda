package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"healthportal/m/internal/activity"
	"healthportal/m/internal/api"
	"healthportal/m/internal/appointment"
	"healthportal/m/internal/cart"
	"healthportal/m/internal/config"
	"healthportal/m/internal/database"
	"healthportal/m/internal/identity"
	"healthportal/m/internal/jobs"
	"healthportal/m/internal/migrations"
	"healthportal/m/internal/notify"
	"healthportal/m/internal/records"
	"healthportal/m/internal/seed"
	"healthportal/m/internal/store"
	"healthportal/m/internal/symptom"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	if err := seed.Load(db, cfg.SeedDir); err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}

	st := store.New(db)
	notifier := notify.NewStoreNotifier(st)
	handler := api.New(api.Services{
		Identity:  identity.New(st, cfg.Secret, cfg.SessionTTL),
		Cart:      cart.New(st),
		Scheduler: appointment.New(st),
		Symptoms:  symptom.New(st, symptom.RuleClassifier{}),
		Records:   records.New(st),
		Activity:  activity.New(st),
		Notifier:  notifier,
		Inbox:     notifier,
	}, cfg.CORSOrigins)

	var runner *jobs.Runner
	if cfg.JobsEnabled {
		runner = jobs.New(st, notifier)
		if err := runner.Start(cfg.ReminderSchedule); err != nil {
			log.Fatalf("failed to start jobs: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: handler.Router()}
	go func() {
		log.Printf("health portal server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if runner != nil {
		runner.Stop()
	}
	notifier.Wait()
}
