package app

import (
	"context"
	"fmt"

	"blogr/internal/config"
	"blogr/internal/database"
	"blogr/internal/repository"
	"blogr/internal/service"
	"blogr/internal/session"
	"blogr/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// App holds the long-lived dependencies built at startup.
type App struct {
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Sessions *session.Manager

	redis *redis.Client
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	photos, err := storage.New(cfg)
	if err != nil {
		_ = db.CloseDB()
		return nil, fmt.Errorf("init photo storage: %w", err)
	}
	log.Info().Str("backend", cfg.Media.Backend).Msg("photo storage ready")

	a := &App{DB: db}

	var store session.Store
	if cfg.Session.RedisURL != "" {
		client, err := session.NewRedisClient(ctx, cfg.Session.RedisURL)
		if err != nil {
			db.CloseDB()
			return nil, fmt.Errorf("init session store: %w", err)
		}
		a.redis = client
		store = session.NewRedisStore(client)
	} else {
		log.Warn().Msg("REDIS_URL not set, sessions are kept in memory")
		store = session.NewMemoryStore()
	}

	a.Repo = repository.NewRepository(db.DB)
	a.Services = service.NewService(a.Repo, cfg, photos)
	a.Sessions = session.NewManager(store, cfg.Session, cfg.SecretKey)

	return a, nil
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close redis")
		}
	}
	if err := a.DB.CloseDB(); err != nil {
		log.Error().Err(err).Msg("failed to close database")
	}
}
