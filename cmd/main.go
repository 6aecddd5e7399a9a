package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/cornucopia-api/config"
	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/internal/container"
	"github.com/oksasatya/cornucopia-api/internal/infrastructure/blob"
	pginfra "github.com/oksasatya/cornucopia-api/internal/infrastructure/postgres"
	"github.com/oksasatya/cornucopia-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/cornucopia-api/internal/interface/http"
	"github.com/oksasatya/cornucopia-api/internal/interface/middleware"
	"github.com/oksasatya/cornucopia-api/internal/router"
	"github.com/oksasatya/cornucopia-api/pkg/helpers"
	"github.com/oksasatya/cornucopia-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()
	health := map[string]handlers.Pinger{}

	container.SetConfig(cfg)
	container.SetLogger(logger)

	if cfg.StoreDriver == "postgres" {
		pool, err := pginfra.NewPool(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
		health["postgres"] = pool.Ping
	} else {
		logger.Warnf("using %s store, data is not persisted", cfg.StoreDriver)
	}

	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		container.SetRedis(rdb)
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	closeBlob, err := openBlob(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to init blob store: %v", err)
	}
	defer closeBlob()

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			err = search.NewRecipeIndex(es, cfg.ESRecipesIndex).EnsureIndex(ctx)
		}
		if err != nil {
			logger.WithError(err).Warn("elasticsearch disabled, recipe search returns no hits")
		} else {
			container.SetES(es)
		}
	}

	if cfg.RabbitMQURL != "" && cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, cfg.AppName)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq disabled, account emails will not be queued")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	container.SetRegistry(reg)

	svc, err := container.Services()
	if err != nil {
		log.Fatalf("failed to build services: %v", err)
	}

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}
	r.Use(middleware.Metrics(container.GetMetrics()))
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	registry := router.NewRegistry(r)
	router.InitModules(registry, router.Deps{
		Services:       svc,
		Logger:         logger,
		Redis:          container.RateLimitRedis(),
		Gatherer:       reg,
		Health:         health,
		DebugEnabled:   cfg.DebugMetricsEnabled,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	registry.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// openBlob installs the configured picture store. Without a bucket, pic
// uploads answer 500 and everything else keeps working.
func openBlob(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (func(), error) {
	noop := func() {}
	var store application.BlobStore
	switch cfg.BlobDriver {
	case "gcs":
		if cfg.GCSBucket == "" {
			logger.Warn("GCS_BUCKET not set, pic uploads disabled")
			return noop, nil
		}
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return noop, err
		}
		store = blob.NewGCS(client, cfg.GCSBucket)
		container.SetBlob(store)
		return func() { _ = client.Close() }, nil
	case "s3":
		if cfg.S3Bucket == "" {
			logger.Warn("S3_BUCKET not set, pic uploads disabled")
			return noop, nil
		}
		s, err := blob.NewS3(ctx, blob.S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return noop, err
		}
		store = s
	default:
		return noop, fmt.Errorf("unknown blob driver %q", cfg.BlobDriver)
	}
	container.SetBlob(store)
	return noop, nil
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
