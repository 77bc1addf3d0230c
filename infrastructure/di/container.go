package di

import (
	"fmt"

	"recall-backend/application/queries"
	querybus "recall-backend/application/queries/bus"
	queries_handlers "recall-backend/application/queries/handlers"
	"recall-backend/application/services"
	"recall-backend/domain/graph"
	"recall-backend/infrastructure/config"
	"recall-backend/infrastructure/memorystore"
	"recall-backend/pkg/observability"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	Registry        *prometheus.Registry
	Metrics         *observability.Metrics
	MemoryStore     *memorystore.Client
	GraphProvider   *services.GraphProvider
	ScopeController *services.ViewScopeController
	QueryBus        *querybus.QueryBus
}

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, error) {
	logger, err := provideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	store := memorystore.NewClient(
		cfg.MemoryStoreURL,
		cfg.MemoryStoreAPIKey,
		cfg.MemoryStoreTimeout,
		metrics,
		logger,
	)

	normalizer := graph.NewNormalizer(logger)
	synthesizer := graph.NewSynthesizer()
	layout := graph.NewRadialLayout()
	adapter := graph.NewShapeAdapter()

	provider := services.NewGraphProvider(store, normalizer, synthesizer, metrics, logger)
	controller := services.NewViewScopeController(provider, cfg.DefaultCategory, metrics, logger)

	queryBus := querybus.NewQueryBus()
	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.GetGraphViewQuery{}, queries_handlers.NewGetGraphViewHandler(provider, layout, logger)},
		{queries.GetAdaptedDocumentsQuery{}, queries_handlers.NewGetAdaptedDocumentsHandler(provider, adapter, logger)},
		{queries.GetNodeQuery{}, queries_handlers.NewGetNodeHandler(provider)},
	}
	for _, reg := range registrations {
		if err := queryBus.Register(reg.query, reg.handler); err != nil {
			return nil, fmt.Errorf("registering query handler: %w", err)
		}
	}

	return &Container{
		Config:          cfg,
		Logger:          logger,
		Registry:        registry,
		Metrics:         metrics,
		MemoryStore:     store,
		GraphProvider:   provider,
		ScopeController: controller,
		QueryBus:        queryBus,
	}, nil
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
