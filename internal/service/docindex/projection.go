package docindex

import (
	"context"
	"errors"
	"fmt"

	"github.com/forumkit/doccat-backend/internal/domain"
)

// IndexForCategory returns categoryID's binding, or domain.ErrNotFound.
func (s *Service) IndexForCategory(ctx context.Context, categoryID int64) (*domain.DocIndex, error) {
	return s.indexes.GetByCategoryID(ctx, categoryID)
}

// SidebarStructureForCategory projects the sidebar a client should render
// for categoryID. Links whose target topic has since been hidden, trashed
// or moved are filtered out at read time; stored rows are never mutated
// here. A category without a binding yields nil.
func (s *Service) SidebarStructureForCategory(ctx context.Context, categoryID int64) ([]domain.SidebarStructureSection, error) {
	index, err := s.indexes.GetByCategoryID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load index for category %d: %w", categoryID, err)
	}
	return s.SidebarStructure(ctx, index)
}

// SidebarStructure projects the sidebar for an already-loaded index.
func (s *Service) SidebarStructure(ctx context.Context, index *domain.DocIndex) ([]domain.SidebarStructureSection, error) {
	sections, topics, err := s.loadStructure(ctx, index)
	if err != nil {
		return nil, err
	}
	return domain.BuildSidebarStructure(index, sections, topics), nil
}

// ValidSidebarTopicIDs returns the distinct topic ids that survive the
// sidebar's read-time filtering for index.
func (s *Service) ValidSidebarTopicIDs(ctx context.Context, index *domain.DocIndex) ([]int64, error) {
	sections, topics, err := s.loadStructure(ctx, index)
	if err != nil {
		return nil, err
	}
	return domain.ValidSidebarTopicIDs(index, sections, topics), nil
}

// loadStructure fetches the stored rows plus every referenced topic in
// one bulk query.
func (s *Service) loadStructure(ctx context.Context, index *domain.DocIndex) ([]domain.SidebarSection, map[int64]*domain.Topic, error) {
	sections, err := s.indexes.GetStructure(ctx, index.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load structure of index %d: %w", index.ID, err)
	}

	ids := domain.LinkTopicIDs(sections)
	topics, err := s.topics.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load sidebar topics: %w", err)
	}
	return sections, topics, nil
}
