package app

import (
	"context"
	"log"
	"os"
	"time"

	"applyflow/internal/config"
	"applyflow/internal/consumer"
	"applyflow/internal/database"
	dbpostgres "applyflow/internal/database/postgres"
	"applyflow/internal/delivery/http/handler"
	"applyflow/internal/directory"
	"applyflow/internal/eventbus"
	"applyflow/internal/infrastructure/cache"
	"applyflow/internal/repository"
	"applyflow/internal/usecase"
	"applyflow/internal/ws"
)

// Container owns every long-lived dependency and the wiring between them.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub

	Applications    usecase.ApplicationUsecase
	Recommendations usecase.RecommendationUsecase
	SavedJobs       usecase.SavedJobUsecase
	Jobs            usecase.JobUsecase

	ProfileConsumer *consumer.ProfileConsumer
	CacheRepo       repository.RecommendationCacheRepository

	Health *handler.HealthHandler
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	redisCache := cache.NewRedis(cfg.Redis, logger)
	hub := ws.NewHub(logger)

	// Lifecycle events fan out to the durable stream and, best-effort, to
	// connected websocket clients.
	var bus eventbus.Bus
	if client := redisCache.Client(); client != nil {
		bus = eventbus.Fanout(eventbus.NewStreamBus(client), ws.BroadcastBus(hub))
	} else {
		bus = eventbus.Fanout(eventbus.NopBus(logger), ws.BroadcastBus(hub))
	}
	publisher := eventbus.NewPublisher(bus, cfg.Redis.ApplicationStream)

	appRepo := repository.NewPostgresApplicationRepository(db)
	jobRepo := repository.NewPostgresJobRepository(db)
	cacheRepo := repository.NewPostgresRecommendationCacheRepository(db)
	feedbackRepo := repository.NewPostgresFeedbackRepository(db)
	savedRepo := repository.NewPostgresSavedJobRepository(db)

	profiles := directory.NewProfileClient(cfg.Directory.ProfileBaseURL, cfg.Directory.ProfileTimeout, logger)

	applications := usecase.NewApplicationService(db, appRepo, jobRepo, publisher, logger)
	recommendations := usecase.NewRecommendationService(profiles, jobRepo, cacheRepo, feedbackRepo, redisCache, logger)
	savedJobs := usecase.NewSavedJobService(savedRepo, jobRepo, logger)
	jobs := usecase.NewJobService(jobRepo)

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = cfg.App.AppName
	}
	profileConsumer := consumer.NewProfileConsumer(
		redisCache.Client(),
		cfg.Redis.ProfileStream,
		cfg.Redis.ConsumerGroup,
		hostname,
		recommendations,
		logger,
	)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		DB:              db,
		Cache:           redisCache,
		Hub:             hub,
		Applications:    applications,
		Recommendations: recommendations,
		SavedJobs:       savedJobs,
		Jobs:            jobs,
		ProfileConsumer: profileConsumer,
		CacheRepo:       cacheRepo,
		Health:          handler.NewHealthHandler(db, redisCache),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
