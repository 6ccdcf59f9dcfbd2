package publish

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/forumkit/doccat-backend/internal/domain"
)

// CategoriesChannel carries category change payloads to clients.
const CategoriesChannel = "/categories"

// CategoryChange is the payload clients use to refresh a category's
// sidebar without re-fetching the whole site payload.
type CategoryChange struct {
	CategoryID       int64                           `json:"category_id"`
	Slug             string                          `json:"slug"`
	SidebarStructure []domain.SidebarStructureSection `json:"sidebar_structure,omitempty"`
}

type categoryReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
}

type structureSource interface {
	SidebarStructureForCategory(ctx context.Context, categoryID int64) ([]domain.SidebarStructureSection, error)
}

// StructureSourceFunc adapts a projection function into a structure source.
// Wiring uses it to break the construction cycle between the notifier and
// the service that owns the projection.
type StructureSourceFunc func(ctx context.Context, categoryID int64) ([]domain.SidebarStructureSection, error)

func (f StructureSourceFunc) SidebarStructureForCategory(ctx context.Context, categoryID int64) ([]domain.SidebarStructureSection, error) {
	return f(ctx, categoryID)
}

// CategoryNotifier publishes category changes with the freshly projected
// sidebar structure attached.
type CategoryNotifier struct {
	log        *slog.Logger
	bus        *Bus
	categories categoryReader
	structures structureSource
}

func NewCategoryNotifier(log *slog.Logger, bus *Bus, categories categoryReader, structures structureSource) *CategoryNotifier {
	return &CategoryNotifier{
		log:        log.With("component", "category_notifier"),
		bus:        bus,
		categories: categories,
		structures: structures,
	}
}

// PublishCategoryChange assembles and publishes the change payload for
// categoryID. Failures are logged, not returned: notification is best
// effort and must never fail the mutation that triggered it.
func (n *CategoryNotifier) PublishCategoryChange(ctx context.Context, categoryID int64) {
	payload, err := n.buildPayload(ctx, categoryID)
	if err != nil {
		n.log.ErrorContext(ctx, "failed to build category change payload",
			"category_id", categoryID, "error", err)
		return
	}

	n.bus.Publish(ctx, CategoriesChannel, payload)
	n.log.InfoContext(ctx, "category change published", "category_id", categoryID)
}

func (n *CategoryNotifier) buildPayload(ctx context.Context, categoryID int64) (CategoryChange, error) {
	category, err := n.categories.GetByID(ctx, categoryID)
	if err != nil {
		return CategoryChange{}, fmt.Errorf("load category: %w", err)
	}

	structure, err := n.structures.SidebarStructureForCategory(ctx, categoryID)
	if err != nil {
		return CategoryChange{}, fmt.Errorf("project sidebar structure: %w", err)
	}

	return CategoryChange{
		CategoryID:       category.ID,
		Slug:             category.Slug,
		SidebarStructure: structure,
	}, nil
}
