// Package search contributes the "in:docs" advanced search filter, which
// restricts a topic search to documentation categories and their
// subcategories.
package search

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// FilterName is the token users type in the search box.
const FilterName = "docs"

type docCategorySource interface {
	IDs(ctx context.Context) ([]int64, error)
}

type categoryReader interface {
	SubcategoryIDs(ctx context.Context, id int64) ([]int64, error)
}

// DocsFilter resolves the category scope of an "in:docs" search. The doc
// category set comes from the site cache, so resolving it costs no query
// on the hot path.
type DocsFilter struct {
	cache      docCategorySource
	categories categoryReader
}

func NewDocsFilter(cache docCategorySource, categories categoryReader) *DocsFilter {
	return &DocsFilter{cache: cache, categories: categories}
}

// CategoryIDs returns every doc category id plus the ids of their
// subcategories, deduplicated, in stable order.
func (f *DocsFilter) CategoryIDs(ctx context.Context) ([]int64, error) {
	docIDs, err := f.cache.IDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load doc category ids: %w", err)
	}

	seen := make(map[int64]bool)
	var ids []int64
	for _, id := range docIDs {
		expanded, err := f.categories.SubcategoryIDs(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("expand subcategories of %d: %w", id, err)
		}
		for _, e := range expanded {
			if !seen[e] {
				seen[e] = true
				ids = append(ids, e)
			}
		}
	}
	return ids, nil
}

// Apply narrows a topic search query to the docs scope. With no doc
// categories configured the filter matches nothing rather than silently
// matching everything.
func (f *DocsFilter) Apply(ctx context.Context, query sq.SelectBuilder) (sq.SelectBuilder, error) {
	ids, err := f.CategoryIDs(ctx)
	if err != nil {
		return query, err
	}
	if len(ids) == 0 {
		return query.Where(sq.Expr("1 = 0")), nil
	}
	return query.Where(sq.Eq{"topics.category_id": ids}), nil
}
