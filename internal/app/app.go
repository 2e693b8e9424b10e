// Package app wires the application together: config, logger, storage,
// cache, services, transport, and the HTTP server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/heartmarshall/toolhub-backend/internal/adapter/postgres"
	auditrepo "github.com/heartmarshall/toolhub-backend/internal/adapter/postgres/audit"
	ratingrepo "github.com/heartmarshall/toolhub-backend/internal/adapter/postgres/rating"
	taxonomyrepo "github.com/heartmarshall/toolhub-backend/internal/adapter/postgres/taxonomy"
	toolrepo "github.com/heartmarshall/toolhub-backend/internal/adapter/postgres/tool"
	userrepo "github.com/heartmarshall/toolhub-backend/internal/adapter/postgres/user"
	redisstore "github.com/heartmarshall/toolhub-backend/internal/adapter/redis"
	"github.com/heartmarshall/toolhub-backend/internal/auth"
	"github.com/heartmarshall/toolhub-backend/internal/cache"
	"github.com/heartmarshall/toolhub-backend/internal/config"
	"github.com/heartmarshall/toolhub-backend/internal/service/audittrail"
	authsvc "github.com/heartmarshall/toolhub-backend/internal/service/auth"
	"github.com/heartmarshall/toolhub-backend/internal/service/catalog"
	taxonomysvc "github.com/heartmarshall/toolhub-backend/internal/service/taxonomy"
	"github.com/heartmarshall/toolhub-backend/internal/transport/middleware"
	"github.com/heartmarshall/toolhub-backend/internal/transport/rest"
)

// Run is the application entry point. It blocks until the context is
// canceled, then shuts the server down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.MigrateOnStart {
		if err := postgres.MigrateUp(ctx, cfg.Database); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	// View store: redis when configured, in-process map otherwise.
	var store cache.Store
	if cfg.Redis.Addr != "" {
		rs, err := redisstore.NewStore(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer rs.Close()
		store = rs
		logger.Info("using redis view store", slog.String("addr", cfg.Redis.Addr))
	} else {
		store = cache.NewMemoryStore()
		logger.Info("using in-process view store")
	}

	views := cache.NewCoordinator(store, logger, cache.TTLs{
		ApprovedTools: cfg.Cache.ApprovedToolsTTL,
		Categories:    cfg.Cache.CategoriesTTL,
		Tags:          cfg.Cache.TagsTTL,
	})

	txm := postgres.NewTxManager(pool)

	tools := toolrepo.New(pool)
	audits := auditrepo.New(pool)
	ratings := ratingrepo.New(pool)
	taxonomies := taxonomyrepo.New(pool)
	users := userrepo.New(pool)

	tokens := auth.NewTokenManager(cfg.Auth)

	auditTrail := audittrail.NewService(logger, audits)
	taxonomySvc := taxonomysvc.NewService(logger, taxonomies, views, cfg.Catalog)
	catalogSvc := catalog.NewService(logger, tools, ratings, users, auditTrail, taxonomySvc, views, txm, cfg.Catalog)
	authSvc := authsvc.NewService(logger, users, tokens)

	router := rest.NewRouter(rest.Handlers{
		Auth:     rest.NewAuthHandler(authSvc, logger),
		Tools:    rest.NewToolHandler(catalogSvc, logger),
		Taxonomy: rest.NewTaxonomyHandler(taxonomySvc, logger),
		Audit:    rest.NewAuditHandler(auditTrail, logger),
		Health:   rest.NewHealthHandler(pool, BuildVersion()),
	})

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Provenance,
		middleware.CORS(cfg.CORS),
		middleware.Auth(tokens, users),
		middleware.Logger(logger),
	)(router)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
