// Package docindex keeps category index bindings and their materialized
// sidebar structures in sync with the index topic's rendered content.
package docindex

import (
	"context"
	"log/slog"

	"github.com/forumkit/doccat-backend/internal/domain"
	"github.com/forumkit/doccat-backend/internal/jobs"
)

type indexRepo interface {
	GetByCategoryID(ctx context.Context, categoryID int64) (*domain.DocIndex, error)
	GetByIndexTopicID(ctx context.Context, topicID int64) (*domain.DocIndex, error)
	ListCategoryIDs(ctx context.Context) ([]int64, error)
	Upsert(ctx context.Context, categoryID, indexTopicID int64) (*domain.DocIndex, error)
	Delete(ctx context.Context, id int64) error
	DeleteByCategoryAndTopic(ctx context.Context, categoryID, topicID int64) (bool, error)
	GetStructure(ctx context.Context, indexID int64) ([]domain.SidebarSection, error)
	ReplaceStructure(ctx context.Context, indexID int64, sections []domain.SidebarSection) error
}

type topicReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Topic, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Topic, error)
	FirstPost(ctx context.Context, topicID int64) (*domain.Post, error)
}

type categoryReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type linkResolver interface {
	ExtractTopicID(href string) (int64, bool)
}

type cacheInvalidator interface {
	Invalidate()
}

type categoryPublisher interface {
	PublishCategoryChange(ctx context.Context, categoryID int64)
}

type featureFlag interface {
	Enabled() bool
}

// Service owns all writes to index bindings and sidebar structures.
type Service struct {
	log        *slog.Logger
	indexes    indexRepo
	topics     topicReader
	categories categoryReader
	tx         txManager
	resolver   linkResolver
	queue      jobs.Enqueuer
	cache      cacheInvalidator
	publisher  categoryPublisher
	flag       featureFlag
}

func NewService(
	log *slog.Logger,
	indexes indexRepo,
	topics topicReader,
	categories categoryReader,
	tx txManager,
	resolver linkResolver,
	queue jobs.Enqueuer,
	cache cacheInvalidator,
	publisher categoryPublisher,
	flag featureFlag,
) *Service {
	return &Service{
		log:        log.With("service", "docindex"),
		indexes:    indexes,
		topics:     topics,
		categories: categories,
		tx:         tx,
		resolver:   resolver,
		queue:      queue,
		cache:      cache,
		publisher:  publisher,
		flag:       flag,
	}
}

// enqueueRefresh schedules a structure refresh for categoryID. A full
// queue is logged and dropped: the binding row is already durable and the
// next content edit re-triggers the refresh.
func (s *Service) enqueueRefresh(ctx context.Context, categoryID int64) {
	if err := s.queue.Enqueue(ctx, jobs.RefreshIndex, jobs.RefreshIndexArgs(categoryID)); err != nil {
		s.log.ErrorContext(ctx, "failed to enqueue index refresh",
			"category_id", categoryID, "error", err)
	}
}
