package commands

import (
	"fmt"

	"github.com/wonny/comps/internal/dataset"
	"github.com/wonny/comps/internal/external/fangraphs"
	"github.com/wonny/comps/internal/external/register"
	"github.com/wonny/comps/internal/external/savant"
	"github.com/wonny/comps/internal/similarity"
	"github.com/wonny/comps/pkg/config"
	"github.com/wonny/comps/pkg/database"
	"github.com/wonny/comps/pkg/logger"
	"github.com/wonny/comps/pkg/redis"
)

// runtime bundles the wiring shared by the one-shot CLI commands.
type runtime struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *database.DB
	redis     *redis.Client
	repo      *dataset.Repository
	provider  *similarity.Provider
	refresher *dataset.Refresher
}

// newRuntime loads config and connects the full dataset pipeline. The
// returned cleanup closes the database and Redis connections.
func newRuntime() (*runtime, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	applyGlobalFlags(cfg)

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	savantClient := savant.New(cfg, redis.NewCache(redisClient, "savant"), log)
	fangraphsClient := fangraphs.New(cfg, redis.NewCache(redisClient, "fangraphs"), log)
	registerClient := register.New(cfg, redis.NewCache(redisClient, "register"), log)

	builder := dataset.NewBuilder(savantClient, fangraphsClient, registerClient, cfg, log)
	repo := dataset.NewRepository(db.Pool)
	provider := similarity.NewProvider(log)
	refresher := dataset.NewRefresher(builder, repo, provider, log)

	rt := &runtime{
		cfg:       cfg,
		log:       log,
		db:        db,
		redis:     redisClient,
		repo:      repo,
		provider:  provider,
		refresher: refresher,
	}
	cleanup := func() {
		redisClient.Close()
		db.Close()
	}
	return rt, cleanup, nil
}
