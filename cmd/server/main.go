package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dilan/peyvin/internal/api"
	"github.com/dilan/peyvin/internal/config"
	"github.com/dilan/peyvin/internal/db"
	"github.com/dilan/peyvin/internal/logger"
	"github.com/dilan/peyvin/internal/quiz"
	"github.com/dilan/peyvin/internal/repository/sqlite"
	"github.com/dilan/peyvin/internal/services"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Peyvîn Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("feedback_delay=%s", cfg.FeedbackDelay)
	log.Debug("session_ttl=%s", cfg.SessionTTL)
	log.Debug("streak_tz=%s", cfg.StreakTimezone)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	wordRepo := sqlite.NewWordRepository(database.DB)
	levelRepo := sqlite.NewLevelRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB, cfg.StreakTimezone)

	// Domain state
	generator := quiz.NewGenerator(nil)
	sessionStore := quiz.NewStore(cfg.SessionTTL)

	// Services
	progressService := services.NewProgressService(progressRepo, statsRepo, levelRepo, cfg.StreakTimezone, nil)
	quizService := services.NewQuizService(wordRepo, levelRepo, progressRepo, progressService, generator, sessionStore, cfg.FeedbackDelay)
	catalogService := services.NewCatalogService(levelRepo, progressRepo)
	dictionaryService := services.NewDictionaryService(wordRepo)
	contentService := services.NewContentService(wordRepo)

	srv := &api.Server{
		CatalogService:    catalogService,
		QuizService:       quizService,
		ProgressService:   progressService,
		DictionaryService: dictionaryService,
		ContentService:    contentService,
		DB:                database.DB,
		AdminToken:        cfg.AdminToken,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go sessionStore.Run(ctx, cfg.SweepInterval)

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

	log.Debug("stopping session sweeper")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Peyvîn Server Stopped")
	log.Info("===========================================")
}
