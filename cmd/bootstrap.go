package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"example.com/motormart/services/showroom/config"
	"example.com/motormart/services/showroom/internal/cache"
	"example.com/motormart/services/showroom/internal/database"
	"example.com/motormart/services/showroom/internal/messaging"
	"example.com/motormart/services/showroom/internal/metrics"
	"example.com/motormart/services/showroom/internal/models"
	"example.com/motormart/services/showroom/internal/repositories"
	"example.com/motormart/services/showroom/internal/search"
	"example.com/motormart/services/showroom/internal/services"
	"example.com/motormart/services/showroom/internal/tracing"
)

// app bundles everything both commands need wired up.
type app struct {
	cfg config.Config
	db  *database.DB

	metrics   *metrics.Metrics
	cache     *cache.RedisCache
	publisher messaging.Publisher

	authService      *services.AuthService
	saleService      *services.SaleService
	stockService     *services.StockService
	adminService     *services.AdminService
	reportingService *services.ReportingService
}

// bootstrap loads config and wires the service graph. Optional backends
// (Redis, Elasticsearch, Service Bus, New Relic) degrade to disabled
// instead of failing startup.
func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, err
	}

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := database.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := models.SetupModels(db.Write); err != nil {
		return nil, err
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis cache, continuing without caching")
		redisCache = &cache.RedisCache{}
	}

	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		return nil, err
	}

	var indexer search.Client
	if elasticClient, err := search.NewElasticClient(cfg.Elastic); err != nil {
		log.Warn().Err(err).Msg("failed to initialize Elasticsearch client, continuing without search")
	} else {
		indexer = elasticClient
	}

	var publisher messaging.Publisher
	if cfg.Azure.QueueConnStr != "" {
		bus, err := messaging.NewAzureServiceBus(cfg.Azure)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize Service Bus, continuing without movement events")
		} else {
			publisher = bus
		}
	}

	metricsCollector := metrics.NewMetrics()
	metricsCollector.SetHealth("database", true)

	uow := repositories.NewGormUnitOfWork(db.Write)
	writeStores := repositories.NewStores(db.Write, db.Write)
	readStores := repositories.NewStores(db.Read, db.Read)

	return &app{
		cfg:       cfg,
		db:        db,
		metrics:   metricsCollector,
		cache:     redisCache,
		publisher: publisher,

		authService:      services.NewAuthService(writeStores.Tenants, metricsCollector, cfg.Auth),
		saleService:      services.NewSaleService(uow, writeStores, redisCache, indexer, publisher, metricsCollector, tracer, cfg.Sale),
		stockService:     services.NewStockService(uow, publisher, metricsCollector, tracer),
		adminService:     services.NewAdminService(uow, writeStores, redisCache, metricsCollector),
		reportingService: services.NewReportingService(readStores, indexer),
	}, nil
}

// close releases every connection the app holds.
func (a *app) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close Service Bus publisher")
		}
	}
	if err := a.cache.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close Redis connection")
	}
	if err := a.db.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close database connections")
	}
}
