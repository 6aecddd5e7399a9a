package container

import (
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cornucopia-api/config"
	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/internal/infrastructure/cache"
	"github.com/oksasatya/cornucopia-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/cornucopia-api/internal/infrastructure/postgres"
	"github.com/oksasatya/cornucopia-api/internal/infrastructure/search"
	"github.com/oksasatya/cornucopia-api/pkg/helpers"
	"github.com/oksasatya/cornucopia-api/pkg/metrics"
)

// app-level container sharing constructed components across packages.
// Optional integrations stay nil when not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	blobStore   application.BlobStore
	jwtManager  *helpers.JWTManager
	rabbitPub   *helpers.RabbitPublisher
	esClient    *elasticsearch.Client
	promReg     *prometheus.Registry
	appMetrics  *metrics.Metrics
)

func SetConfig(c *config.Config)              { cfg = c }
func GetConfig() *config.Config               { return cfg }
func SetLogger(l *logrus.Logger)              { logger = l }
func GetLogger() *logrus.Logger               { return logger }
func SetPGPool(p *pgxpool.Pool)               { pgPool = p }
func GetPGPool() *pgxpool.Pool                { return pgPool }
func SetRedis(r *redis.Client)                { redisClient = r }
func GetRedis() *redis.Client                 { return redisClient }
func SetBlob(b application.BlobStore)         { blobStore = b }
func GetBlob() application.BlobStore          { return blobStore }
func SetJWT(m *helpers.JWTManager)            { jwtManager = m }
func GetJWT() *helpers.JWTManager             { return jwtManager }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

// SetRegistry installs the Prometheus registry and creates the collectors on it.
func SetRegistry(r *prometheus.Registry) {
	promReg = r
	appMetrics = metrics.New(r)
}
func GetRegistry() *prometheus.Registry { return promReg }
func GetMetrics() *metrics.Metrics      { return appMetrics }

// RateLimitRedis is the client for rate limiters, nil when they are off.
func RateLimitRedis() *redis.Client {
	if cfg == nil || !cfg.RateLimitEnabled {
		return nil
	}
	return redisClient
}

// Stores builds the repositories of the configured store driver.
func Stores() (application.Stores, error) {
	driver := "postgres"
	if cfg != nil && cfg.StoreDriver != "" {
		driver = cfg.StoreDriver
	}
	switch driver {
	case "memory":
		m := memory.NewStore()
		return application.Stores{
			Users:    m.Users(),
			Profiles: m.Profiles(),
			Recipes:  m.Recipes(),
			Comments: m.Comments(),
			Upvotes:  m.Upvotes(),
			Pics:     m.Pics(),
		}, nil
	case "postgres":
		if pgPool == nil {
			return application.Stores{}, fmt.Errorf("postgres store selected but no pool configured")
		}
		return application.Stores{
			Users:    pginfra.NewUserRepository(pgPool),
			Profiles: pginfra.NewProfileRepository(pgPool),
			Recipes:  pginfra.NewRecipeRepository(pgPool),
			Comments: pginfra.NewCommentRepository(pgPool),
			Upvotes:  pginfra.NewUpvoteRepository(pgPool),
			Pics:     pginfra.NewPicRepository(pgPool),
		}, nil
	default:
		return application.Stores{}, fmt.Errorf("unknown store driver %q", driver)
	}
}

// Services assembles the application layer from the container.
func Services() (*application.Services, error) {
	stores, err := Stores()
	if err != nil {
		return nil, err
	}
	o := application.Options{
		Stores:  stores,
		Blob:    blobStore,
		Tokens:  jwtManager,
		Logger:  logger,
		Metrics: appMetrics,
	}
	if cfg != nil {
		o.TokenTTL = cfg.TokenTTL
		o.UploadDir = cfg.UploadDir
		o.MailSendEnabled = cfg.MailSendEnabled
		o.AppName = cfg.AppName
		o.SupportURL = cfg.SupportURL
	}
	// typed nils must not reach the interface fields
	if rabbitPub != nil {
		o.Publisher = rabbitPub
	}
	if redisClient != nil {
		o.Sessions = cache.NewSessionCache(redisClient, logger)
	}
	if esClient != nil && cfg != nil {
		o.Index = search.NewRecipeIndex(esClient, cfg.ESRecipesIndex)
	}
	return application.NewServices(o), nil
}
