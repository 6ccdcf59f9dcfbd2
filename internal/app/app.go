package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/forumkit/doccat-backend/internal/adapter/postgres"
	categoryrepo "github.com/forumkit/doccat-backend/internal/adapter/postgres/category"
	docindexrepo "github.com/forumkit/doccat-backend/internal/adapter/postgres/docindex"
	topicrepo "github.com/forumkit/doccat-backend/internal/adapter/postgres/topic"
	"github.com/forumkit/doccat-backend/internal/auth"
	"github.com/forumkit/doccat-backend/internal/config"
	"github.com/forumkit/doccat-backend/internal/domain"
	"github.com/forumkit/doccat-backend/internal/jobs"
	"github.com/forumkit/doccat-backend/internal/publish"
	"github.com/forumkit/doccat-backend/internal/service/docindex"
	"github.com/forumkit/doccat-backend/internal/service/reports"
	"github.com/forumkit/doccat-backend/internal/settings"
	"github.com/forumkit/doccat-backend/internal/sitecache"
	"github.com/forumkit/doccat-backend/internal/siteurl"
	"github.com/forumkit/doccat-backend/internal/transport/middleware"
	"github.com/forumkit/doccat-backend/internal/transport/rest"
)

// Run wires the application together and blocks until ctx is cancelled:
// config, logger, database pool, repositories, services, the refresh job
// queue, and the HTTP server with its middleware chain.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
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

	indexes := docindexrepo.New(pool)
	topics := topicrepo.New(pool)
	categories := categoryrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	matcher, err := siteurl.NewMatcher(cfg.Docs.SiteBaseURL)
	if err != nil {
		return fmt.Errorf("parse site base url: %w", err)
	}

	docsEnabled := settings.NewDocs(cfg.Docs.Enabled)
	cache := sitecache.NewDocCategories(indexes.ListCategoryIDs)
	queue := jobs.NewQueue(logger, cfg.Jobs.QueueSize)
	bus := publish.NewBus(logger)

	// The notifier projects the structure back through the service that owns
	// it, so the source is bound after the service exists.
	var docsService *docindex.Service
	notifier := publish.NewCategoryNotifier(logger, bus, categories, publish.StructureSourceFunc(
		func(ctx context.Context, categoryID int64) ([]domain.SidebarStructureSection, error) {
			return docsService.SidebarStructureForCategory(ctx, categoryID)
		},
	))
	docsService = docindex.NewService(
		logger, indexes, topics, categories, txManager,
		matcher, queue, cache, notifier, docsEnabled,
	)

	queue.Register(jobs.RefreshIndex, func(jobCtx context.Context, args jobs.Args) error {
		categoryID, err := args.CategoryID()
		if err != nil {
			return err
		}
		return docsService.Refresh(jobCtx, categoryID)
	})

	reportService := reports.NewService(logger, indexes, topics, categories, matcher)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	healthHandler := rest.NewHealthHandler(pool, BuildVersion())
	docsHandler := rest.NewDocsHandler(docsService, cache, logger)
	adminHandler := rest.NewAdminHandler(docsService, categories, reportService, queue, docsEnabled, cache, logger)

	router := rest.NewRouter(healthHandler, docsHandler, adminHandler)

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.Server.RateLimit),
		middleware.Auth(jwtManager),
	)(router)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		queue.Run(ctx, cfg.Jobs.Workers)
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", slog.String("error", err.Error()))
	}

	// The queue drains in-flight refreshes after ctx cancellation.
	wg.Wait()

	logger.Info("stopped")
	return nil
}
