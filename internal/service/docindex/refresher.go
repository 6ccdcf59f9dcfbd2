package docindex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/forumkit/doccat-backend/internal/docparser"
	"github.com/forumkit/doccat-backend/internal/domain"
)

// Refresh rebuilds the stored sidebar structure for categoryID from the
// index topic's rendered first post. It is idempotent: running it twice
// against unchanged content yields the same rows, and it heals itself
// when the binding went stale (index topic moved, trashed, or converted
// to a private message) by tearing the binding down.
func (s *Service) Refresh(ctx context.Context, categoryID int64) error {
	index, err := s.indexes.GetByCategoryID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load index for category %d: %w", categoryID, err)
	}

	topic, err := s.topics.GetByID(ctx, index.IndexTopicID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("load index topic %d: %w", index.IndexTopicID, err)
	}

	if !domain.ValidIndexTopic(topic, categoryID) {
		return s.teardown(ctx, index)
	}

	post, err := s.topics.FirstPost(ctx, topic.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load first post of topic %d: %w", topic.ID, err)
	}
	if post.IsTrashed() || strings.TrimSpace(post.Cooked) == "" {
		// Nothing to parse; the previous structure stays in place.
		return nil
	}

	sections, err := s.buildSections(ctx, categoryID, docparser.Parse(post.Cooked))
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.indexes.ReplaceStructure(ctx, index.ID, sections)
	})
	if err != nil {
		return fmt.Errorf("replace structure of index %d: %w", index.ID, err)
	}

	s.log.InfoContext(ctx, "index structure refreshed",
		"category_id", categoryID, "sections", len(sections))

	s.cache.Invalidate()
	s.publisher.PublishCategoryChange(ctx, categoryID)
	return nil
}

// teardown removes a binding whose index topic is no longer valid.
func (s *Service) teardown(ctx context.Context, index *domain.DocIndex) error {
	if err := s.indexes.Delete(ctx, index.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete stale index %d: %w", index.ID, err)
	}

	s.log.InfoContext(ctx, "stale index binding removed",
		"category_id", index.CategoryID, "index_topic_id", index.IndexTopicID)

	s.cache.Invalidate()
	s.publisher.PublishCategoryChange(ctx, index.CategoryID)
	return nil
}

// buildSections converts parsed content into storable rows: hrefs are
// resolved to topic ids where possible, link titles fall back to the
// target topic's title and then to the href, and positions record the
// document order.
func (s *Service) buildSections(ctx context.Context, categoryID int64, parsed []docparser.Section) ([]domain.SidebarSection, error) {
	targets, err := s.resolveTargets(ctx, parsed)
	if err != nil {
		return nil, err
	}

	sections := make([]domain.SidebarSection, 0, len(parsed))
	for _, ps := range parsed {
		section := domain.SidebarSection{Title: sectionTitle(ps.Title)}

		for _, pl := range ps.Links {
			href := strings.TrimSpace(pl.Href)
			if href == "" {
				continue
			}

			link := domain.SidebarLink{
				Href:     href,
				Position: len(section.Links),
			}

			if id, ok := s.resolver.ExtractTopicID(href); ok {
				link.TopicID = &id
			}

			if text := linkTitle(pl, targets[href]); text != "" {
				link.Title = &text
			}

			section.Links = append(section.Links, link)
		}

		if len(section.Links) == 0 {
			continue
		}
		section.Position = len(sections)
		sections = append(sections, section)
	}

	return sections, nil
}

// resolveTargets loads every linked topic in a single query, keyed by the
// href that referenced it.
func (s *Service) resolveTargets(ctx context.Context, parsed []docparser.Section) (map[string]*domain.Topic, error) {
	hrefByID := make(map[int64][]string)
	var ids []int64
	for _, ps := range parsed {
		for _, pl := range ps.Links {
			href := strings.TrimSpace(pl.Href)
			if href == "" {
				continue
			}
			id, ok := s.resolver.ExtractTopicID(href)
			if !ok {
				continue
			}
			if _, seen := hrefByID[id]; !seen {
				ids = append(ids, id)
			}
			hrefByID[id] = append(hrefByID[id], href)
		}
	}

	if len(ids) == 0 {
		return nil, nil
	}

	topics, err := s.topics.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load linked topics: %w", err)
	}

	targets := make(map[string]*domain.Topic)
	for id, hrefs := range hrefByID {
		topic, ok := topics[id]
		if !ok {
			continue
		}
		for _, href := range hrefs {
			targets[href] = topic
		}
	}
	return targets, nil
}

func sectionTitle(title string) *string {
	if title == "" {
		return nil
	}
	return &title
}

func linkTitle(parsed docparser.Link, target *domain.Topic) string {
	if text := strings.TrimSpace(parsed.Text); text != "" {
		return text
	}
	if target != nil && strings.TrimSpace(target.Title) != "" {
		return target.Title
	}
	return strings.TrimSpace(parsed.Href)
}
