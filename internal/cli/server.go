package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"screening-service/internal/app"
	"screening-service/internal/config"
	"screening-service/internal/infra/memory"
	"screening-service/internal/infra/postgres"
	infraredis "screening-service/internal/infra/redis"
	"screening-service/internal/seed"
	transport "screening-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the screening API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var (
		loader    memory.CatalogLoader
		directory app.TherapistDirectory
	)
	if pool != nil {
		loader = postgres.NewCatalogLoader(pool)
		directory = postgres.NewTherapistDirectory(pool)
	} else {
		questions, err := seed.LoadQuestionsFile(cfg.Catalog.QuestionsFile)
		if err != nil {
			return err
		}
		therapists, err := seed.LoadTherapistsFile(cfg.Catalog.TherapistsFile)
		if err != nil {
			return err
		}
		loader = memory.NewStaticCatalogLoader(questions)
		directory = memory.NewTherapistDirectory(therapists)
		log.Info("using embedded catalog", zap.Int("questions", len(questions)), zap.Int("therapists", len(therapists)))
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalog app.CatalogRepository
	if redisClient != nil {
		catalog = infraredis.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalog = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var results app.ResultRepository
	switch {
	case cfg.Postgres.URL != "":
		db := openBun(cfg.Postgres.URL)
		defer db.Close()
		results = postgres.NewResultStore(db)
	case redisClient != nil:
		results = infraredis.NewResultStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 0))
	default:
		results = memory.NewResultStore()
	}

	svcCfg, err := serviceConfig(cfg, log)
	if err != nil {
		return err
	}
	service, err := app.NewScreeningService(catalog, directory, results, svcCfg)
	if err != nil {
		return err
	}

	router := transport.NewRouter(
		transport.NewHandler(service, log),
		transport.NewWSHandler(service, log),
		transport.RouterOptions{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RateLimit:      cfg.Server.RateLimit,
			Logger:         log,
		},
	)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.TTLDuration(cfg.Server.WriteTimeout, 15*time.Second),
	}

	go func() {
		log.Info("starting screening service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
