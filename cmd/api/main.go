package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"featurecard/adapters/dataset"
	"featurecard/adapters/postgres"
	"featurecard/adapters/redis"
	"featurecard/internal"
	"featurecard/internal/config"
	"featurecard/internal/errors"
	"featurecard/internal/migration"
	"featurecard/internal/plotspec"
	"featurecard/internal/render"
	"featurecard/ports"
	"featurecard/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger = internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, closeFiles, err := initRegistry(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize data file registry: %v", err)
	}
	defer closeFiles()

	var opts []dataset.ServiceOption
	if appConfig.Cache.Enabled() {
		cache, err := redis.NewFeatureCache(ctx, appConfig.Cache.RedisURL, appConfig.Cache.TTL)
		if err != nil {
			log.Printf("Feature cache disabled: %v", err)
		} else {
			defer cache.Close()
			opts = append(opts, dataset.WithCache(cache))
			log.Printf("Feature cache enabled (ttl %s)", appConfig.Cache.TTL)
		}
	}
	service := dataset.NewService(files, appConfig.Data.MediaRoot, appConfig.Data.TargetColumn, opts...)

	var archive ports.Surface
	if appConfig.Render.OutputDir != "" {
		if err := os.MkdirAll(appConfig.Render.OutputDir, 0o755); err != nil {
			log.Fatalf("Failed to create render output directory: %v", err)
		}
		archive = render.NewDirSurface(appConfig.Render.OutputDir)
	}

	server, err := ui.NewServer(ui.Config{
		Features:  service,
		Renderers: render.Default(),
		Surface:   archive,
		Viewport: plotspec.Viewport{
			Width:  appConfig.Render.ViewportWidth,
			Height: appConfig.Render.ViewportHeight,
		},
	})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := server.Start(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// initRegistry connects the Postgres registry when DATABASE_URL is set and
// falls back to an in-memory registry filled from MEDIA_ROOT otherwise.
func initRegistry(ctx context.Context, appConfig *config.Config) (ports.DataFileRepository, func(), error) {
	if !appConfig.Database.Enabled() {
		registry := dataset.NewMemoryRegistry()
		n, err := dataset.Discover(ctx, registry, appConfig.Data.MediaRoot)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to discover data files")
		}
		log.Printf("Registered %d data files from %s", n, appConfig.Data.MediaRoot)
		return registry, func() {}, nil
	}

	db, err := initDatabase(ctx, appConfig)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewDataFileRepository(db), func() { db.Close() }, nil
}

// initDatabase initializes the PostgreSQL database connection
func initDatabase(ctx context.Context, appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.DatabaseError("failed to ping database", err)
	}

	if err := migration.Migrate(ctx, db, migration.NewRunner()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
