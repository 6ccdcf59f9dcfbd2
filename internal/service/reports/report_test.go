package reports

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/forumkit/doccat-backend/internal/domain"
	"github.com/forumkit/doccat-backend/internal/siteurl"
)

type indexReaderMock struct {
	GetByCategoryIDFunc func(ctx context.Context, categoryID int64) (*domain.DocIndex, error)
	GetStructureFunc    func(ctx context.Context, indexID int64) ([]domain.SidebarSection, error)
}

func (m *indexReaderMock) GetByCategoryID(ctx context.Context, categoryID int64) (*domain.DocIndex, error) {
	return m.GetByCategoryIDFunc(ctx, categoryID)
}

func (m *indexReaderMock) GetStructure(ctx context.Context, indexID int64) ([]domain.SidebarSection, error) {
	return m.GetStructureFunc(ctx, indexID)
}

type topicReaderMock struct {
	GetByIDsFunc             func(ctx context.Context, ids []int64) (map[int64]*domain.Topic, error)
	ListCategoryTopicIDsFunc func(ctx context.Context, categoryIDs []int64, visibleOnly bool) ([]int64, error)
}

func (m *topicReaderMock) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Topic, error) {
	return m.GetByIDsFunc(ctx, ids)
}

func (m *topicReaderMock) ListCategoryTopicIDs(ctx context.Context, categoryIDs []int64, visibleOnly bool) ([]int64, error) {
	return m.ListCategoryTopicIDsFunc(ctx, categoryIDs, visibleOnly)
}

type categoryReaderMock struct {
	SubcategoryIDsFunc func(ctx context.Context, id int64) ([]int64, error)
}

func (m *categoryReaderMock) SubcategoryIDs(ctx context.Context, id int64) ([]int64, error) {
	return m.SubcategoryIDsFunc(ctx, id)
}

func i64(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }

func visibleTopic(id, categoryID int64) *domain.Topic {
	return &domain.Topic{
		ID:         id,
		CategoryID: i64(categoryID),
		Title:      "Topic",
		Slug:       "topic",
		Archetype:  domain.ArchetypeRegular,
		Visible:    true,
	}
}

func newTestService(t *testing.T, indexes *indexReaderMock, topics *topicReaderMock, categories *categoryReaderMock) *Service {
	t.Helper()
	matcher, err := siteurl.NewMatcher("")
	if err != nil {
		t.Fatalf("NewMatcher() error = %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(log, indexes, topics, categories, matcher)
}

func auditStructure() []domain.SidebarSection {
	return []domain.SidebarSection{
		{
			ID: 1, IndexID: 1, Title: strPtr("Guides"), Position: 0,
			Links: []domain.SidebarLink{
				{ID: 1, SectionID: 1, Title: strPtr("Install"), Href: "/t/install/21", TopicID: i64(21), Position: 0},
				{ID: 2, SectionID: 1, Title: strPtr("Hidden"), Href: "/t/hidden/22", TopicID: i64(22), Position: 1},
				{ID: 3, SectionID: 1, Title: strPtr("Elsewhere"), Href: "/t/elsewhere/23", TopicID: i64(23), Position: 2},
				{ID: 4, SectionID: 1, Title: strPtr("All tags"), Href: "/tag/docs", Position: 3},
				{ID: 5, SectionID: 1, Title: strPtr("Manual"), Href: "https://example.com/manual", Position: 4},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	indexes := &indexReaderMock{
		GetByCategoryIDFunc: func(_ context.Context, categoryID int64) (*domain.DocIndex, error) {
			return &domain.DocIndex{ID: 1, CategoryID: categoryID, IndexTopicID: 5}, nil
		},
		GetStructureFunc: func(context.Context, int64) ([]domain.SidebarSection, error) {
			return auditStructure(), nil
		},
	}
	topics := &topicReaderMock{
		GetByIDsFunc: func(context.Context, []int64) (map[int64]*domain.Topic, error) {
			hidden := visibleTopic(22, 10)
			hidden.Visible = false
			return map[int64]*domain.Topic{
				21: visibleTopic(21, 10),
				22: hidden,
				23: visibleTopic(23, 99),
			}, nil
		},
		// Category 10 holds the index topic, the listed topic 21 and the
		// never-listed topic 40.
		ListCategoryTopicIDsFunc: func(_ context.Context, categoryIDs []int64, visibleOnly bool) ([]int64, error) {
			if !visibleOnly {
				t.Error("ListCategoryTopicIDs called with visibleOnly = false")
			}
			return []int64{5, 21, 40}, nil
		},
	}

	svc := newTestService(t, indexes, topics, &categoryReaderMock{})
	report, err := svc.Build(context.Background(), 10, false)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(report.MissingTopicIDs) != 1 || report.MissingTopicIDs[0] != 40 {
		t.Errorf("MissingTopicIDs = %v, want [40]", report.MissingTopicIDs)
	}

	want := map[string]string{
		"/t/hidden/22":               ReasonTopicNotVisible,
		"/t/elsewhere/23":            ReasonOtherCategory,
		"/tag/docs":                  ReasonNotATopic,
		"https://example.com/manual": ReasonExternal,
	}
	if len(report.Extraneous) != len(want) {
		t.Fatalf("Extraneous = %+v, want %d items", report.Extraneous, len(want))
	}
	for _, item := range report.Extraneous {
		if got := want[item.Href]; got != item.Reason {
			t.Errorf("reason for %s = %s, want %s", item.Href, item.Reason, got)
		}
	}
}

func TestBuild_IncludeSubcategories(t *testing.T) {
	t.Parallel()

	indexes := &indexReaderMock{
		GetByCategoryIDFunc: func(_ context.Context, categoryID int64) (*domain.DocIndex, error) {
			return &domain.DocIndex{ID: 1, CategoryID: categoryID, IndexTopicID: 5}, nil
		},
		GetStructureFunc: func(context.Context, int64) ([]domain.SidebarSection, error) {
			return []domain.SidebarSection{
				{
					ID: 1, IndexID: 1, Position: 0,
					Links: []domain.SidebarLink{
						{ID: 1, SectionID: 1, Title: strPtr("Child doc"), Href: "/t/child/30", TopicID: i64(30), Position: 0},
					},
				},
			}, nil
		},
	}
	var listedScope []int64
	topics := &topicReaderMock{
		GetByIDsFunc: func(context.Context, []int64) (map[int64]*domain.Topic, error) {
			// Topic 30 lives in subcategory 11.
			return map[int64]*domain.Topic{30: visibleTopic(30, 11)}, nil
		},
		ListCategoryTopicIDsFunc: func(_ context.Context, categoryIDs []int64, _ bool) ([]int64, error) {
			listedScope = categoryIDs
			return []int64{30}, nil
		},
	}
	categories := &categoryReaderMock{
		SubcategoryIDsFunc: func(_ context.Context, id int64) ([]int64, error) {
			return []int64{id, 11}, nil
		},
	}

	svc := newTestService(t, indexes, topics, categories)
	report, err := svc.Build(context.Background(), 10, true)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(listedScope) != 2 {
		t.Errorf("listed scope = %v, want category and subcategory", listedScope)
	}
	if len(report.MissingTopicIDs) != 0 {
		t.Errorf("MissingTopicIDs = %v, want none", report.MissingTopicIDs)
	}
	// With subcategories in scope the child topic is not extraneous.
	if len(report.Extraneous) != 0 {
		t.Errorf("Extraneous = %+v, want none", report.Extraneous)
	}
}

func TestBuild_NoBindingFails(t *testing.T) {
	t.Parallel()

	indexes := &indexReaderMock{
		GetByCategoryIDFunc: func(context.Context, int64) (*domain.DocIndex, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := newTestService(t, indexes, &topicReaderMock{}, &categoryReaderMock{})
	if _, err := svc.Build(context.Background(), 10, false); err == nil {
		t.Fatal("Build() expected error for a category without an index")
	}
}

func TestBuild_TrashedTargetIsNotVisible(t *testing.T) {
	t.Parallel()

	now := time.Now()
	indexes := &indexReaderMock{
		GetByCategoryIDFunc: func(_ context.Context, categoryID int64) (*domain.DocIndex, error) {
			return &domain.DocIndex{ID: 1, CategoryID: categoryID, IndexTopicID: 5}, nil
		},
		GetStructureFunc: func(context.Context, int64) ([]domain.SidebarSection, error) {
			return []domain.SidebarSection{
				{
					ID: 1, IndexID: 1, Position: 0,
					Links: []domain.SidebarLink{
						{ID: 1, SectionID: 1, Title: strPtr("Old"), Href: "/t/old/50", TopicID: i64(50), Position: 0},
					},
				},
			}, nil
		},
	}
	topics := &topicReaderMock{
		GetByIDsFunc: func(context.Context, []int64) (map[int64]*domain.Topic, error) {
			trashed := visibleTopic(50, 10)
			trashed.DeletedAt = &now
			return map[int64]*domain.Topic{50: trashed}, nil
		},
		ListCategoryTopicIDsFunc: func(context.Context, []int64, bool) ([]int64, error) {
			return nil, nil
		},
	}

	svc := newTestService(t, indexes, topics, &categoryReaderMock{})
	report, err := svc.Build(context.Background(), 10, false)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(report.Extraneous) != 1 || report.Extraneous[0].Reason != ReasonTopicNotVisible {
		t.Errorf("Extraneous = %+v, want one topic_not_visible item", report.Extraneous)
	}
}
