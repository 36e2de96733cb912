package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/comps/internal/api"
	"github.com/wonny/comps/internal/api/handlers"
	"github.com/wonny/comps/internal/dataset"
	"github.com/wonny/comps/internal/external/fangraphs"
	"github.com/wonny/comps/internal/external/register"
	"github.com/wonny/comps/internal/external/savant"
	"github.com/wonny/comps/internal/scheduler"
	"github.com/wonny/comps/internal/scheduler/jobs"
	"github.com/wonny/comps/internal/similarity"
	"github.com/wonny/comps/pkg/config"
	"github.com/wonny/comps/pkg/database"
	"github.com/wonny/comps/pkg/logger"
	"github.com/wonny/comps/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the comps API server",
	Long: `Starts the REST API server.

On startup the server loads the latest stored dataset and fits the
similarity engines. A daily scheduled job rebuilds the dataset from the
upstream leaderboards.

Endpoints:
  GET  /health                                            - Health check
  GET  /api/players/search?q=...                          - Player search
  GET  /api/players/{id}/seasons/{season}                 - Season profile
  GET  /api/players/{id}/seasons/{season}/comps           - Similar seasons
  GET  /api/pitchers/{id}/seasons/{season}/pitches        - Pitch arsenal
  GET  /api/pitchers/{id}/seasons/{season}/pitch-comps    - Similar pitches
  POST /api/dataset/build                                 - Trigger rebuild
  GET  /api/dataset/status                                - Dataset status
  GET  /api/dataset/build/progress                        - Progress stream (ws)

Example:
  go run ./cmd/comps api
  go run ./cmd/comps api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort        string
	apiNoScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
	apiCmd.Flags().BoolVar(&apiNoScheduler, "no-scheduler", false, "disable the daily dataset refresh job")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Comps API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyGlobalFlags(cfg)
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port":    cfg.Port,
		"env":     cfg.Env,
		"seasons": fmt.Sprintf("%d-%d", cfg.Dataset.StartSeason, cfg.Dataset.EndSeason),
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Connect to Redis (degrades to no-op cache when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	// 5. Create upstream clients
	savantClient := savant.New(cfg, redis.NewCache(redisClient, "savant"), log)
	fangraphsClient := fangraphs.New(cfg, redis.NewCache(redisClient, "fangraphs"), log)
	registerClient := register.New(cfg, redis.NewCache(redisClient, "register"), log)

	// 6. Create dataset pipeline
	builder := dataset.NewBuilder(savantClient, fangraphsClient, registerClient, cfg, log)
	repo := dataset.NewRepository(db.Pool)
	provider := similarity.NewProvider(log)
	refresher := dataset.NewRefresher(builder, repo, provider, log)

	// 7. Fit engines from the stored dataset
	if err := refresher.LoadFromStore(cmd.Context()); err != nil {
		return fmt.Errorf("load dataset from store: %w", err)
	}
	if !provider.Ready() {
		log.Warn("No stored dataset yet, run a build to enable comps")
	}

	// 8. Create handlers
	playerHandler := handlers.NewPlayerHandler(provider, log)
	pitchHandler := handlers.NewPitchHandler(provider, log)
	datasetHandler := handlers.NewDatasetHandler(refresher, log)

	// 9. Create router and server
	router := api.NewRouter(playerHandler, pitchHandler, datasetHandler, log)
	server := api.New(cfg, log, router)

	// 10. Start the refresh scheduler
	var sched *scheduler.Scheduler
	if !apiNoScheduler {
		sched = scheduler.New(log)
		if err := sched.AddJob(jobs.NewDatasetRefreshJob(refresher, log)); err != nil {
			return fmt.Errorf("register refresh job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 11. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\nServer running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
