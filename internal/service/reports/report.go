package reports

import (
	"context"
	"fmt"

	"github.com/forumkit/doccat-backend/internal/domain"
	"github.com/forumkit/doccat-backend/internal/siteurl"
)

// Build audits categoryID's index. Missing topics are visible regular
// topics of the category (optionally including its subcategories) that no
// surviving index entry links to; the index topic itself never counts as
// missing. Extraneous entries are stored links whose target is hidden,
// lives elsewhere, is not a topic at all, or leaves the site.
func (s *Service) Build(ctx context.Context, categoryID int64, includeSubcategories bool) (*Report, error) {
	index, err := s.indexes.GetByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("load index for category %d: %w", categoryID, err)
	}

	sections, err := s.indexes.GetStructure(ctx, index.ID)
	if err != nil {
		return nil, fmt.Errorf("load structure of index %d: %w", index.ID, err)
	}

	targets, err := s.topics.GetByIDs(ctx, domain.LinkTopicIDs(sections))
	if err != nil {
		return nil, fmt.Errorf("load linked topics: %w", err)
	}

	scope := []int64{categoryID}
	if includeSubcategories {
		if scope, err = s.categories.SubcategoryIDs(ctx, categoryID); err != nil {
			return nil, fmt.Errorf("expand subcategories of %d: %w", categoryID, err)
		}
	}

	missing, err := s.missingTopicIDs(ctx, index, sections, targets, scope)
	if err != nil {
		return nil, err
	}

	report := &Report{
		CategoryID:           categoryID,
		IndexTopicID:         index.IndexTopicID,
		IncludeSubcategories: includeSubcategories,
		MissingTopicIDs:      missing,
		Extraneous:           s.extraneousItems(index, sections, targets, scope),
	}

	s.log.InfoContext(ctx, "index report built",
		"category_id", categoryID,
		"missing", len(report.MissingTopicIDs),
		"extraneous", len(report.Extraneous))
	return report, nil
}

func (s *Service) missingTopicIDs(
	ctx context.Context,
	index *domain.DocIndex,
	sections []domain.SidebarSection,
	targets map[int64]*domain.Topic,
	scope []int64,
) ([]int64, error) {
	existing, err := s.topics.ListCategoryTopicIDs(ctx, scope, true)
	if err != nil {
		return nil, fmt.Errorf("list topics of categories %v: %w", scope, err)
	}

	listed := make(map[int64]bool)
	for _, id := range domain.ValidSidebarTopicIDs(index, sections, targets) {
		listed[id] = true
	}

	missing := make([]int64, 0)
	for _, id := range existing {
		if id == index.IndexTopicID || listed[id] {
			continue
		}
		missing = append(missing, id)
	}
	return missing, nil
}

func (s *Service) extraneousItems(
	index *domain.DocIndex,
	sections []domain.SidebarSection,
	targets map[int64]*domain.Topic,
	scope []int64,
) []ExtraneousItem {
	inScope := make(map[int64]bool, len(scope))
	for _, id := range scope {
		inScope[id] = true
	}

	items := make([]ExtraneousItem, 0)
	for _, section := range sections {
		for _, link := range section.Links {
			reason, ok := s.classify(link, targets, inScope)
			if !ok {
				continue
			}
			items = append(items, ExtraneousItem{
				Href:    link.Href,
				Title:   link.Title,
				TopicID: link.TopicID,
				Reason:  reason,
			})
		}
	}
	return items
}

// classify reports why a stored link is extraneous, or ok=false for a
// healthy in-category topic link.
func (s *Service) classify(link domain.SidebarLink, targets map[int64]*domain.Topic, inScope map[int64]bool) (string, bool) {
	if link.TopicID == nil {
		if route, ok := s.routes.RouteFor(link.Href); ok && route.Resource != siteurl.ResourceTopic {
			return ReasonNotATopic, true
		}
		return ReasonExternal, true
	}

	topic := targets[*link.TopicID]
	if topic == nil || topic.IsTrashed() || !topic.Visible || topic.IsPrivateMessage() {
		return ReasonTopicNotVisible, true
	}
	if topic.CategoryID == nil || !inScope[*topic.CategoryID] {
		return ReasonOtherCategory, true
	}
	return "", false
}
