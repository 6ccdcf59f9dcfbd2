// Package category implements read access to the forum core's categories
// table.
package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/forumkit/doccat-backend/internal/adapter/postgres"
	"github.com/forumkit/doccat-backend/internal/domain"
)

// Repo provides category reads backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new category reader.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByIDSQL = `
SELECT id, parent_category_id, name, slug, created_at, updated_at
FROM categories
WHERE id = $1`

const subcategoryIDsSQL = `
SELECT id FROM categories WHERE parent_category_id = $1 ORDER BY id`

// GetByID returns a category by primary key.
// Returns domain.ErrNotFound when no row exists.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		c        domain.Category
		parentID pgtype.Int8
	)
	err := querier.QueryRow(ctx, getByIDSQL, id).Scan(
		&c.ID, &parentID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "category", id)
	}

	if parentID.Valid {
		p := parentID.Int64
		c.ParentCategoryID = &p
	}

	return &c, nil
}

// SubcategoryIDs returns the category itself followed by its direct
// subcategories. The forum's category tree is one level deep, so no
// recursion is needed.
func (r *Repo) SubcategoryIDs(ctx context.Context, id int64) ([]int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, subcategoryIDsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("subcategory ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{id}
	for rows.Next() {
		var sub int64
		if err := rows.Scan(&sub); err != nil {
			return nil, fmt.Errorf("subcategory ids: %w", err)
		}
		ids = append(ids, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("subcategory ids: %w", err)
	}

	return ids, nil
}
