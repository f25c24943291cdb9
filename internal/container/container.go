package container

import (
	"bizsim-api/internal/config"
	"bizsim-api/internal/repository"
	"bizsim-api/internal/service"
	"bizsim-api/internal/service/auth"
	"bizsim-api/pkg/database"
	"bizsim-api/pkg/logger"
	"bizsim-api/pkg/redis"
)

// Container holds all application dependencies. Everything is constructed
// once at process start and passed explicitly; there is no ambient global
// client anywhere below this point.
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisClient *redis.Client
	Repos       *repository.Repositories

	Auth      service.AuthService
	Cache     *service.CacheService
	Decisions *service.DecisionService
	Scheduler *service.SchedulerService
}

// New creates a new dependency injection container
func New(cfg *config.Config, log *logger.Logger, db *database.PostgresDB) (*Container, error) {
	// Redis is optional; without it polling reads hit the database directly.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	repos := &repository.Repositories{
		Events:    repository.NewEventRepository(db),
		Teams:     repository.NewTeamRepository(db),
		Sessions:  repository.NewSessionRepository(db),
		Decisions: repository.NewDecisionRepository(db),
		Votes:     repository.NewVoteRepository(db),
		Scores:    repository.NewScoreRepository(db),
	}

	cacheService := service.NewCacheService(redisClient, log.Logger)

	return &Container{
		Config:      cfg,
		Logger:      log,
		RedisClient: redisClient,
		Repos:       repos,
		Auth:        auth.NewService(cfg.JWTSecret, log),
		Cache:       cacheService,
		Decisions:   service.NewDecisionService(repos, cacheService, log.Logger),
		Scheduler:   service.NewSchedulerService(repos, cacheService, log.Logger),
	}, nil
}

// HasRedis returns true if the Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}
