// Package reports audits a category's index against the topics actually
// living in the category, surfacing docs the index forgot and index
// entries that point at the wrong thing.
package reports

import (
	"context"
	"log/slog"

	"github.com/forumkit/doccat-backend/internal/domain"
	"github.com/forumkit/doccat-backend/internal/siteurl"
)

// Reasons an index entry is flagged as extraneous.
const (
	ReasonTopicNotVisible = "topic_not_visible"
	ReasonOtherCategory   = "other_category"
	ReasonNotATopic       = "not_a_topic"
	ReasonExternal        = "external"
)

// ExtraneousItem is one flagged index entry.
type ExtraneousItem struct {
	Href    string  `json:"href"`
	Title   *string `json:"title,omitempty"`
	TopicID *int64  `json:"topic_id,omitempty"`
	Reason  string  `json:"reason"`
}

// Report is the audit result for one category's index.
type Report struct {
	CategoryID           int64            `json:"category_id"`
	IndexTopicID         int64            `json:"index_topic_id"`
	IncludeSubcategories bool             `json:"include_subcategories"`
	MissingTopicIDs      []int64          `json:"missing_topic_ids"`
	Extraneous           []ExtraneousItem `json:"extraneous"`
}

type indexReader interface {
	GetByCategoryID(ctx context.Context, categoryID int64) (*domain.DocIndex, error)
	GetStructure(ctx context.Context, indexID int64) ([]domain.SidebarSection, error)
}

type topicReader interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Topic, error)
	ListCategoryTopicIDs(ctx context.Context, categoryIDs []int64, visibleOnly bool) ([]int64, error)
}

type categoryReader interface {
	SubcategoryIDs(ctx context.Context, id int64) ([]int64, error)
}

type linkClassifier interface {
	RouteFor(href string) (siteurl.Route, bool)
}

// Service computes index audit reports. Read-only: it never mutates the
// structure it inspects.
type Service struct {
	log        *slog.Logger
	indexes    indexReader
	topics     topicReader
	categories categoryReader
	routes     linkClassifier
}

func NewService(log *slog.Logger, indexes indexReader, topics topicReader, categories categoryReader, routes linkClassifier) *Service {
	return &Service{
		log:        log.With("service", "reports"),
		indexes:    indexes,
		topics:     topics,
		categories: categories,
		routes:     routes,
	}
}
