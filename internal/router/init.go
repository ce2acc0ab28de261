package router

import (
	"context"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gin-gonic/gin"

	contactapp "github.com/oksasatya/agenda-api/internal/application"
	"github.com/oksasatya/agenda-api/internal/container"
	repocontact "github.com/oksasatya/agenda-api/internal/domain/repository"
	"github.com/oksasatya/agenda-api/internal/infrastructure/cache"
	"github.com/oksasatya/agenda-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/agenda-api/internal/infrastructure/postgres"
	"github.com/oksasatya/agenda-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/agenda-api/internal/interface/http"
	"github.com/oksasatya/agenda-api/internal/interface/middleware"
	"github.com/oksasatya/agenda-api/internal/router/modules"
	"github.com/oksasatya/agenda-api/pkg/helpers"
)

type ContactModuleDeps struct {
	Repo    repocontact.ContactRepository
	Service *contactapp.Service
	Handler *handlers.ContactHandler
}

// buildContactRepository picks Postgres when a pool is available, memory otherwise,
// and puts the Redis cache in front when configured.
func buildContactRepository() repocontact.ContactRepository {
	cfg := container.GetConfig()

	var repo repocontact.ContactRepository
	if pool := container.GetPGPool(); pool != nil {
		repo = pginfra.NewContactRepository(pool)
	} else {
		repo = memory.NewContactRepository()
	}

	if rdb := container.GetRedis(); rdb != nil && cfg.CacheTTL > 0 {
		repo = cache.NewContactRepository(repo, rdb, cfg.CacheTTL, container.GetLogger())
	}
	return repo
}

func buildContactDeps() ContactModuleDeps {
	cfg := container.GetConfig()
	repo := buildContactRepository()

	// interfaces stay nil unless the backing client exists
	var events contactapp.EventPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		events = pub
	}
	var searcher contactapp.ContactSearcher
	if es := container.GetES(); es != nil {
		searcher = search.NewContactIndex(es, cfg.ESContactsIndex, container.GetLogger())
	}

	service := contactapp.NewService(repo, events, searcher, container.GetLogger())
	handler := handlers.NewContactHandler(service, container.GetLogger())

	return ContactModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}

func healthChecks() map[string]modules.Check {
	checks := map[string]modules.Check{}
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = pool.Ping
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return helpers.PingRedis(ctx, rdb) }
	}
	if es := container.GetES(); es != nil {
		checks["elasticsearch"] = func(ctx context.Context) error { return helpers.PingES(ctx, es) }
	}
	return checks
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	r.AddRoot(modules.NewHealthModule(healthChecks()))
	if cfg.MetricsEnabled {
		set := metrics.NewSet()
		r.Use(middleware.MeterRequests(set))
		r.AddRoot(modules.NewMetricsModule(set, cfg.AppName))
	}

	var allow middleware.AllowFunc
	if cfg.RateLimitBypassPrivate {
		allow = middleware.AllowPrivateIP()
	}
	limiter := middleware.RateLimit(container.GetRedis(), cfg.RateLimitPerMinute, time.Minute, middleware.KeyByIPAndPath(), allow)

	contactDeps := buildContactDeps()
	r.Add(modules.NewContactModule(contactDeps.Handler, limiter))
}

// NewEngine builds the gin engine with global middleware and every module mounted.
func NewEngine() *gin.Engine {
	cfg := container.GetConfig()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP(cfg.TrustProxy))
	r.Use(middleware.CORS(cfg.CORSOrigins()))
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(container.GetLogger()))
	}

	reg := NewRegistry(r, cfg.APIPrefix)
	InitModules(reg)
	reg.RegisterAll()
	return r
}
