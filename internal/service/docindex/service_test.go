package docindex

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/forumkit/doccat-backend/internal/domain"
	"github.com/forumkit/doccat-backend/internal/jobs"
	"github.com/forumkit/doccat-backend/internal/siteurl"
)

// serviceMocks bundles every port with permissive defaults so each test
// only overrides what it cares about.
type serviceMocks struct {
	indexes    *indexRepoMock
	topics     *topicReaderMock
	categories *categoryReaderMock
	tx         *txManagerMock
	queue      *enqueuerMock
	cache      *cacheInvalidatorMock
	publisher  *categoryPublisherMock
	flag       *featureFlagMock
}

func newServiceMocks() *serviceMocks {
	return &serviceMocks{
		indexes:    &indexRepoMock{},
		topics:     &topicReaderMock{},
		categories: &categoryReaderMock{},
		tx: &txManagerMock{
			RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
				return fn(ctx)
			},
		},
		queue:     &enqueuerMock{EnqueueFunc: func(context.Context, string, jobs.Args) error { return nil }},
		cache:     &cacheInvalidatorMock{InvalidateFunc: func() {}},
		publisher: &categoryPublisherMock{PublishCategoryChangeFunc: func(context.Context, int64) {}},
		flag:      &featureFlagMock{EnabledFunc: func() bool { return true }},
	}
}

// newTestService wires the mocks into a Service with the real link
// resolver so hrefs behave exactly as in production.
func newTestService(t *testing.T, m *serviceMocks) *Service {
	t.Helper()
	matcher, err := siteurl.NewMatcher("")
	if err != nil {
		t.Fatalf("NewMatcher() error = %v", err)
	}
	return NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		m.indexes,
		m.topics,
		m.categories,
		m.tx,
		matcher,
		m.queue,
		m.cache,
		m.publisher,
		m.flag,
	)
}

func i64(v int64) *int64 { return &v }

func testCategory(id int64) *domain.Category {
	return &domain.Category{ID: id, Name: "Docs", Slug: "docs", CreatedAt: time.Now(), UpdatedAt: time.Now()}
}

func testTopic(id, categoryID int64) *domain.Topic {
	return &domain.Topic{
		ID:         id,
		CategoryID: i64(categoryID),
		Title:      "How to configure",
		Slug:       "how-to-configure",
		Archetype:  domain.ArchetypeRegular,
		Visible:    true,
	}
}

func testIndex(id, categoryID, topicID int64) *domain.DocIndex {
	return &domain.DocIndex{ID: id, CategoryID: categoryID, IndexTopicID: topicID}
}

// expectRefreshEnqueued asserts exactly one refresh job was enqueued for
// categoryID.
func expectRefreshEnqueued(t *testing.T, queue *enqueuerMock, categoryID int64) {
	t.Helper()
	calls := queue.EnqueueCalls()
	if len(calls) != 1 {
		t.Fatalf("enqueued %d jobs, want 1", len(calls))
	}
	if calls[0].Name != jobs.RefreshIndex {
		t.Errorf("enqueued job %q, want %q", calls[0].Name, jobs.RefreshIndex)
	}
	got, err := calls[0].Args.CategoryID()
	if err != nil {
		t.Fatalf("enqueued args invalid: %v", err)
	}
	if got != categoryID {
		t.Errorf("enqueued category_id = %d, want %d", got, categoryID)
	}
}

func expectNothingEnqueued(t *testing.T, queue *enqueuerMock) {
	t.Helper()
	if calls := queue.EnqueueCalls(); len(calls) != 0 {
		t.Fatalf("enqueued %d jobs, want 0", len(calls))
	}
}
