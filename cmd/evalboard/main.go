package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evalboard/internal/config"
	"evalboard/internal/database"
	httpapi "evalboard/internal/http"
	"evalboard/internal/logger"
	"evalboard/internal/notify"
	"evalboard/internal/repository"
	"evalboard/internal/service"
	"evalboard/internal/session"
	"evalboard/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "evalboard")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	kv := store.NewRedisKV(redisClient)
	sessions := session.NewManager(kv, cfg.Session.Secret, time.Duration(cfg.Session.TTLHours)*time.Hour)
	publisher := notify.NewPublisher(redisClient, log)

	candidatesRepo := repository.NewPostgresCandidatesRepository(db)
	evaluatorsRepo := repository.NewPostgresEvaluatorsRepository(db)
	adminsRepo := repository.NewPostgresAdminsRepository(db)
	categoriesRepo := repository.NewPostgresCategoriesRepository(db)
	itemsRepo := repository.NewPostgresItemsRepository(db)
	submissionsRepo := repository.NewPostgresSubmissionsRepository(db)
	presetsRepo := repository.NewPostgresPresetScoresRepository(db)
	sysConfigRepo := repository.NewPostgresSystemConfigRepository(db, cfg.PassThresholdPercent)

	// Dev bootstrap: make sure there is a usable admin login. Disable with
	// SEED_ADMIN=false once real credentials are provisioned.
	if os.Getenv("SEED_ADMIN") != "false" {
		username := getEnv("ADMIN_USERNAME", "admin")
		password := getEnv("ADMIN_PASSWORD", "ChangeMe123!")
		if err := adminsRepo.UpsertAdmin(context.Background(), username, session.HashPassword(password)); err != nil {
			log.Warn("Failed to seed admin account", zap.Error(err))
		}
	}

	authService := service.NewAuthService(adminsRepo, evaluatorsRepo, log)
	candidateService := service.NewCandidateService(candidatesRepo, publisher, log)
	evaluatorService := service.NewEvaluatorService(evaluatorsRepo, publisher, log)
	categoryService := service.NewCategoryService(categoriesRepo, itemsRepo, publisher, log)
	presetService := service.NewPresetService(presetsRepo, itemsRepo, publisher, log)
	evaluationService := service.NewEvaluationService(candidatesRepo, categoriesRepo, itemsRepo, submissionsRepo, presetsRepo, sysConfigRepo, publisher, log)
	resultsService := service.NewResultsService(candidatesRepo, evaluatorsRepo, itemsRepo, submissionsRepo, presetsRepo, sysConfigRepo, log)
	configService := service.NewConfigService(sysConfigRepo, publisher, log)
	templateService := service.NewTemplateService(categoriesRepo, itemsRepo, publisher, log)

	router := httpapi.NewRouter(sessions, log)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authService, sessions, log))
	router.RegisterAdminRoutes(
		httpapi.NewAdminCandidatesHandler(candidateService, presetService, log),
		httpapi.NewAdminEvaluatorsHandler(evaluatorService, log),
		httpapi.NewAdminCategoriesHandler(categoryService, log),
		httpapi.NewAdminResultsHandler(resultsService, log),
		httpapi.NewAdminConfigHandler(configService, log),
		httpapi.NewAdminTemplateHandler(templateService, log),
	)
	router.RegisterEvaluatorRoutes(httpapi.NewEvaluatorHandler(evaluationService, log))
	router.RegisterPublicRoutes(httpapi.NewPublicHandler(configService, resultsService, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
