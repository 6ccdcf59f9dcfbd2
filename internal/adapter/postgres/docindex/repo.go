// Package docindex implements persistence for documentation index records and
// their materialized sidebar structure (sections and links) using PostgreSQL.
//
// The sidebar tree is never patched in place: ReplaceStructure destroys the
// previous sections (cascading to links) and bulk-inserts the new tree, so a
// reader always observes one complete structure or the other.
package docindex

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/forumkit/doccat-backend/internal/adapter/postgres"
	"github.com/forumkit/doccat-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides doc index persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new doc index repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const indexColumns = `id, category_id, index_topic_id, created_at, updated_at`

const getByCategoryIDSQL = `
SELECT ` + indexColumns + `
FROM doc_categories_indexes
WHERE category_id = $1`

const getByIndexTopicIDSQL = `
SELECT ` + indexColumns + `
FROM doc_categories_indexes
WHERE index_topic_id = $1`

const listCategoryIDsSQL = `
SELECT category_id FROM doc_categories_indexes ORDER BY category_id`

const upsertSQL = `
INSERT INTO doc_categories_indexes (category_id, index_topic_id)
VALUES ($1, $2)
ON CONFLICT (category_id)
DO UPDATE SET index_topic_id = EXCLUDED.index_topic_id, updated_at = now()
RETURNING ` + indexColumns

const deleteSQL = `DELETE FROM doc_categories_indexes WHERE id = $1`

const deleteByCategoryAndTopicSQL = `
DELETE FROM doc_categories_indexes
WHERE category_id = $1 AND index_topic_id = $2`

const getStructureSQL = `
SELECT
    s.id, s.doc_categories_index_id, s.title, s."position",
    l.id, l.doc_categories_sidebar_section_id, l.title, l.href, l.topic_id, l."position"
FROM doc_categories_sidebar_sections s
LEFT JOIN doc_categories_sidebar_links l
    ON l.doc_categories_sidebar_section_id = s.id
WHERE s.doc_categories_index_id = $1
ORDER BY s."position", l."position"`

const deleteSectionsSQL = `
DELETE FROM doc_categories_sidebar_sections WHERE doc_categories_index_id = $1`

const touchSQL = `
UPDATE doc_categories_indexes SET updated_at = now() WHERE id = $1`

// GetByCategoryID returns the index record bound to a category.
// Returns domain.ErrNotFound when the category has no index.
func (r *Repo) GetByCategoryID(ctx context.Context, categoryID int64) (*domain.DocIndex, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	return scanIndex(querier.QueryRow(ctx, getByCategoryIDSQL, categoryID), categoryID)
}

// GetByIndexTopicID returns the index record whose index topic is the given
// topic. Returns domain.ErrNotFound when no category designates the topic.
func (r *Repo) GetByIndexTopicID(ctx context.Context, topicID int64) (*domain.DocIndex, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	return scanIndex(querier.QueryRow(ctx, getByIndexTopicIDSQL, topicID), topicID)
}

// ListCategoryIDs returns the ids of every category that has an index record.
func (r *Repo) ListCategoryIDs(ctx context.Context) ([]int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listCategoryIDsSQL)
	if err != nil {
		return nil, fmt.Errorf("list doc category ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list doc category ids: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list doc category ids: %w", err)
	}

	return ids, nil
}

// Upsert creates the index record for a category or repoints an existing one
// at a new index topic. Returns domain.ErrAlreadyExists when the topic is
// already the index topic of another category (unique index_topic_id).
func (r *Repo) Upsert(ctx context.Context, categoryID, indexTopicID int64) (*domain.DocIndex, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	index, err := scanIndex(querier.QueryRow(ctx, upsertSQL, categoryID, indexTopicID), categoryID)
	if err != nil {
		return nil, err
	}
	return index, nil
}

// Delete removes an index record; the schema cascades to sections and links.
// Returns domain.ErrNotFound when the record does not exist.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteSQL, id)
	if err != nil {
		return postgres.MapError(err, "doc_index", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("doc_index %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByCategoryAndTopic removes the index record binding a specific
// category to a specific topic, if one exists. Reports whether a row was
// deleted; a missing binding is not an error.
func (r *Repo) DeleteByCategoryAndTopic(ctx context.Context, categoryID, topicID int64) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteByCategoryAndTopicSQL, categoryID, topicID)
	if err != nil {
		return false, postgres.MapError(err, "doc_index", categoryID)
	}

	return tag.RowsAffected() > 0, nil
}

// GetStructure returns the materialized sections with their links, ordered by
// position. Returns an empty slice (not nil) when no structure exists.
func (r *Repo) GetStructure(ctx context.Context, indexID int64) ([]domain.SidebarSection, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getStructureSQL, indexID)
	if err != nil {
		return nil, fmt.Errorf("get sidebar structure: %w", err)
	}
	defer rows.Close()

	sections := []domain.SidebarSection{}
	for rows.Next() {
		var (
			sectionID    int64
			sectionIdxID int64
			sectionTitle pgtype.Text
			sectionPos   int

			linkID      pgtype.Int8
			linkSection pgtype.Int8
			linkTitle   pgtype.Text
			linkHref    pgtype.Text
			linkTopicID pgtype.Int8
			linkPos     pgtype.Int4
		)

		err := rows.Scan(
			&sectionID, &sectionIdxID, &sectionTitle, &sectionPos,
			&linkID, &linkSection, &linkTitle, &linkHref, &linkTopicID, &linkPos,
		)
		if err != nil {
			return nil, fmt.Errorf("get sidebar structure: %w", err)
		}

		if len(sections) == 0 || sections[len(sections)-1].ID != sectionID {
			sections = append(sections, domain.SidebarSection{
				ID:       sectionID,
				IndexID:  sectionIdxID,
				Title:    textPtr(sectionTitle),
				Position: sectionPos,
			})
		}

		if !linkID.Valid {
			continue
		}

		section := &sections[len(sections)-1]
		section.Links = append(section.Links, domain.SidebarLink{
			ID:        linkID.Int64,
			SectionID: linkSection.Int64,
			Title:     textPtr(linkTitle),
			Href:      linkHref.String,
			TopicID:   int8Ptr(linkTopicID),
			Position:  int(linkPos.Int32),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get sidebar structure: %w", err)
	}

	return sections, nil
}

// ReplaceStructure swaps the entire section/link tree of an index record and
// touches its updated_at. Callers run it inside a transaction (TxManager) so
// a failure leaves the previous tree fully intact.
func (r *Repo) ReplaceStructure(ctx context.Context, indexID int64, sections []domain.SidebarSection) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, deleteSectionsSQL, indexID); err != nil {
		return postgres.MapError(err, "sidebar_section", indexID)
	}

	if len(sections) > 0 {
		sectionIDs, err := insertSections(ctx, querier, indexID, sections)
		if err != nil {
			return err
		}
		if err := insertLinks(ctx, querier, sectionIDs, sections); err != nil {
			return err
		}
	}

	if _, err := querier.Exec(ctx, touchSQL, indexID); err != nil {
		return postgres.MapError(err, "doc_index", indexID)
	}

	return nil
}

// insertSections bulk-inserts sections and returns their generated ids in
// insertion order.
func insertSections(ctx context.Context, querier postgres.Querier, indexID int64, sections []domain.SidebarSection) ([]int64, error) {
	builder := psql.
		Insert("doc_categories_sidebar_sections").
		Columns("doc_categories_index_id", "title", `"position"`).
		Suffix("RETURNING id")

	for _, section := range sections {
		builder = builder.Values(indexID, section.Title, section.Position)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert sections: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "sidebar_section", indexID)
	}
	defer rows.Close()

	ids := make([]int64, 0, len(sections))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("insert sections: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "sidebar_section", indexID)
	}

	if len(ids) != len(sections) {
		return nil, fmt.Errorf("insert sections: inserted %d of %d", len(ids), len(sections))
	}

	return ids, nil
}

// insertLinks bulk-inserts every link of every section in one statement.
func insertLinks(ctx context.Context, querier postgres.Querier, sectionIDs []int64, sections []domain.SidebarSection) error {
	builder := psql.
		Insert("doc_categories_sidebar_links").
		Columns("doc_categories_sidebar_section_id", "title", "href", "topic_id", `"position"`)

	total := 0
	for i, section := range sections {
		for _, link := range section.Links {
			builder = builder.Values(sectionIDs[i], link.Title, link.Href, link.TopicID, link.Position)
			total++
		}
	}
	if total == 0 {
		return nil
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build insert links: %w", err)
	}

	if _, err := querier.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "sidebar_link", 0)
	}

	return nil
}

func scanIndex(row pgx.Row, id int64) (*domain.DocIndex, error) {
	var index domain.DocIndex
	var createdAt, updatedAt time.Time

	err := row.Scan(&index.ID, &index.CategoryID, &index.IndexTopicID, &createdAt, &updatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "doc_index", id)
	}

	index.CreatedAt = createdAt
	index.UpdatedAt = updatedAt
	return &index, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

func int8Ptr(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
