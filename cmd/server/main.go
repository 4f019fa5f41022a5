package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sidequestlab/memoquiz/internal/api"
	"github.com/sidequestlab/memoquiz/internal/config"
	"github.com/sidequestlab/memoquiz/internal/db"
	"github.com/sidequestlab/memoquiz/internal/logger"
	"github.com/sidequestlab/memoquiz/internal/repository/sqlite"
	"github.com/sidequestlab/memoquiz/internal/schedule"
	"github.com/sidequestlab/memoquiz/internal/services"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("MemoQuiz Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("schedule_path=%s", cfg.SchedulePath)
	log.Debug("session_card_limit=%d", cfg.SessionCardLimit)

	// A missing or malformed schedule makes every scheduling decision
	// undefined, so refuse to start.
	sched, err := schedule.Load(cfg.SchedulePath)
	if err != nil {
		log.Error("failed to load review schedule: %v", err)
		os.Exit(1)
	}
	log.Info("review schedule loaded: %d-day cycle, boxes %v", sched.CycleLength(), sched.Boxes())

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	cardRepo := sqlite.NewCardRepository(database.DB)
	quizRepo := sqlite.NewQuizRepository(database.DB)
	membershipRepo := sqlite.NewMembershipRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	reviewLogRepo := sqlite.NewReviewLogRepository(database.DB)
	settingsRepo := sqlite.NewSettingsRepository(database.DB)

	quizService := services.NewQuizService(quizRepo, membershipRepo, cardRepo)
	cardService := services.NewCardService(cardRepo, membershipRepo, quizService)
	sessionService := services.NewSessionService(
		sessionRepo, membershipRepo, cardRepo, reviewLogRepo, settingsRepo,
		quizService, sched, cfg.SessionCardLimit)
	dashboardService := services.NewDashboardService(
		sessionRepo, membershipRepo, reviewLogRepo, settingsRepo,
		quizService, sched, cfg.SessionCardLimit)

	srv := api.NewServer(cardService, quizService, sessionService, dashboardService, database.Ping)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("MemoQuiz Server Stopped")
	log.Info("===========================================")
}
