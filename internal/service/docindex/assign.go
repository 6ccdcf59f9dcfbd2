package docindex

import (
	"context"
	"errors"
	"fmt"

	"github.com/forumkit/doccat-backend/internal/domain"
)

// Assign binds topicID as category's index topic, or clears the binding
// when topicID is zero or negative. It reports whether anything changed:
// false covers both no-op cases (clearing an absent binding, re-assigning
// the current topic) and rejected candidates (missing, wrong category,
// private message, trashed, or already bound elsewhere).
func (s *Service) Assign(ctx context.Context, category *domain.Category, topicID int64) (bool, error) {
	if category == nil {
		return false, fmt.Errorf("assign index topic: %w", domain.ErrNotFound)
	}

	if topicID <= 0 {
		return s.clear(ctx, category)
	}
	return s.assign(ctx, category, topicID)
}

func (s *Service) clear(ctx context.Context, category *domain.Category) (bool, error) {
	index, err := s.indexes.GetByCategoryID(ctx, category.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load index for category %d: %w", category.ID, err)
	}

	if err := s.indexes.Delete(ctx, index.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("delete index %d: %w", index.ID, err)
	}

	s.log.InfoContext(ctx, "index topic cleared",
		"category_id", category.ID, "index_topic_id", index.IndexTopicID)

	s.cache.Invalidate()
	s.enqueueRefresh(ctx, category.ID)
	return true, nil
}

func (s *Service) assign(ctx context.Context, category *domain.Category, topicID int64) (bool, error) {
	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load topic %d: %w", topicID, err)
	}

	if !domain.ValidIndexTopic(topic, category.ID) {
		return false, nil
	}

	current, err := s.indexes.GetByCategoryID(ctx, category.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("load index for category %d: %w", category.ID, err)
	}
	if current != nil && current.IndexTopicID == topicID {
		return false, nil
	}

	// A topic can serve as the index of at most one category.
	if other, err := s.indexes.GetByIndexTopicID(ctx, topicID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return false, fmt.Errorf("load index for topic %d: %w", topicID, err)
		}
	} else if other.CategoryID != category.ID {
		return false, nil
	}

	if _, err := s.indexes.Upsert(ctx, category.ID, topicID); err != nil {
		// A concurrent assignment can still win the unique race.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("upsert index for category %d: %w", category.ID, err)
	}

	s.log.InfoContext(ctx, "index topic assigned",
		"category_id", category.ID, "index_topic_id", topicID)

	s.cache.Invalidate()
	s.enqueueRefresh(ctx, category.ID)
	return true, nil
}
