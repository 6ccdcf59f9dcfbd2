package docindex

import (
	"context"
	"errors"
	"fmt"

	"github.com/forumkit/doccat-backend/internal/domain"
)

// The handlers below react to forum lifecycle events. They only ever
// enqueue background work or delegate to Assign; the heavy lifting stays
// in Refresh so event delivery remains cheap.

// HandlePostEdited reacts to a post's rendered content changing. Editing
// the first post of an index topic schedules a structure refresh.
func (s *Service) HandlePostEdited(ctx context.Context, post *domain.Post, cookedChanged bool) error {
	if !s.flag.Enabled() || post == nil || !post.IsFirstPost() || !cookedChanged {
		return nil
	}

	index, err := s.indexes.GetByIndexTopicID(ctx, post.TopicID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load index for topic %d: %w", post.TopicID, err)
	}

	s.enqueueRefresh(ctx, index.CategoryID)
	return nil
}

// HandleTopicMoved reacts to a topic changing category. Moving an index
// topic out of its category schedules a refresh there, which tears the
// now-stale binding down. Moving a topic into the category that already
// designates it heals the binding the same way.
func (s *Service) HandleTopicMoved(ctx context.Context, topic *domain.Topic, previousCategoryID int64) error {
	if !s.flag.Enabled() || topic == nil {
		return nil
	}

	index, err := s.indexes.GetByIndexTopicID(ctx, topic.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load index for topic %d: %w", topic.ID, err)
	}

	switch {
	case index.CategoryID == previousCategoryID:
		s.enqueueRefresh(ctx, previousCategoryID)
	case topic.InCategory(index.CategoryID):
		s.enqueueRefresh(ctx, index.CategoryID)
	}
	return nil
}

// HandleTopicTrashed unassigns a soft-deleted index topic from its
// category.
func (s *Service) HandleTopicTrashed(ctx context.Context, topic *domain.Topic) error {
	if !s.flag.Enabled() || topic == nil {
		return nil
	}

	index, err := s.indexes.GetByIndexTopicID(ctx, topic.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load index for topic %d: %w", topic.ID, err)
	}

	category, err := s.categories.GetByID(ctx, index.CategoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load category %d: %w", index.CategoryID, err)
	}

	if _, err := s.Assign(ctx, category, 0); err != nil {
		return fmt.Errorf("clear index of category %d: %w", category.ID, err)
	}
	return nil
}

// HandleTopicRecovered reacts to a soft-deleted topic being restored.
// If the topic's category still points at it, the structure is refreshed;
// if the category has no binding, the topic is re-assigned. A binding to
// a different topic wins and the recovered topic stays unassigned.
func (s *Service) HandleTopicRecovered(ctx context.Context, topic *domain.Topic) error {
	if !s.flag.Enabled() || topic == nil || topic.CategoryID == nil {
		return nil
	}
	categoryID := *topic.CategoryID

	index, err := s.indexes.GetByCategoryID(ctx, categoryID)
	switch {
	case err == nil:
		if index.IndexTopicID == topic.ID {
			s.enqueueRefresh(ctx, categoryID)
		}
		return nil

	case errors.Is(err, domain.ErrNotFound):
		category, err := s.categories.GetByID(ctx, categoryID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("load category %d: %w", categoryID, err)
		}
		if _, err := s.Assign(ctx, category, topic.ID); err != nil {
			return fmt.Errorf("re-assign index of category %d: %w", categoryID, err)
		}
		return nil

	default:
		return fmt.Errorf("load index for category %d: %w", categoryID, err)
	}
}

// ShouldBumpTopic overrides the forum's default bump decision: edits to
// the first post of a topic living in a doc category always bump, so
// documentation updates surface in topic lists. Any other edit keeps the
// default.
func (s *Service) ShouldBumpTopic(ctx context.Context, topic *domain.Topic, post *domain.Post, hasChanges, defaultDecision bool) (bool, error) {
	if !s.flag.Enabled() || topic == nil || topic.CategoryID == nil ||
		post == nil || !post.IsFirstPost() || !hasChanges {
		return defaultDecision, nil
	}

	_, err := s.indexes.GetByCategoryID(ctx, *topic.CategoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return defaultDecision, nil
		}
		return defaultDecision, fmt.Errorf("load index for category %d: %w", *topic.CategoryID, err)
	}
	return true, nil
}
