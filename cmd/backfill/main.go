// Command backfill rebuilds the sidebar structure of every category that has
// an index record. It is a one-shot command for deployments that predate the
// materialized structure, or for repairing after manual database surgery.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/forumkit/doccat-backend/internal/adapter/postgres"
	categoryrepo "github.com/forumkit/doccat-backend/internal/adapter/postgres/category"
	docindexrepo "github.com/forumkit/doccat-backend/internal/adapter/postgres/docindex"
	topicrepo "github.com/forumkit/doccat-backend/internal/adapter/postgres/topic"
	"github.com/forumkit/doccat-backend/internal/app"
	"github.com/forumkit/doccat-backend/internal/config"
	"github.com/forumkit/doccat-backend/internal/domain"
	"github.com/forumkit/doccat-backend/internal/jobs"
	"github.com/forumkit/doccat-backend/internal/publish"
	"github.com/forumkit/doccat-backend/internal/service/docindex"
	"github.com/forumkit/doccat-backend/internal/settings"
	"github.com/forumkit/doccat-backend/internal/sitecache"
	"github.com/forumkit/doccat-backend/internal/siteurl"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	indexes := docindexrepo.New(pool)
	topics := topicrepo.New(pool)
	categories := categoryrepo.New(pool)

	matcher, err := siteurl.NewMatcher(cfg.Docs.SiteBaseURL)
	if err != nil {
		logger.Error("parse site base url", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := sitecache.NewDocCategories(indexes.ListCategoryIDs)
	bus := publish.NewBus(logger)

	// Backfill runs refreshes synchronously; the queue exists only to satisfy
	// the service wiring and is never drained.
	var svc *docindex.Service
	notifier := publish.NewCategoryNotifier(logger, bus, categories, publish.StructureSourceFunc(
		func(ctx context.Context, categoryID int64) ([]domain.SidebarStructureSection, error) {
			return svc.SidebarStructureForCategory(ctx, categoryID)
		},
	))
	svc = docindex.NewService(
		logger, indexes, topics, categories, postgres.NewTxManager(pool),
		matcher, jobs.NewQueue(logger, 1), cache, notifier,
		settings.NewDocs(cfg.Docs.Enabled),
	)

	ids, err := indexes.ListCategoryIDs(ctx)
	if err != nil {
		logger.Error("list doc categories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	failed := 0
	for _, categoryID := range ids {
		if err := svc.Refresh(ctx, categoryID); err != nil {
			failed++
			logger.Error("refresh failed",
				slog.Int64("category_id", categoryID),
				slog.String("error", err.Error()),
			)
		}
	}

	logger.Info("backfill completed",
		slog.Int("categories", len(ids)),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		os.Exit(1)
	}
}
