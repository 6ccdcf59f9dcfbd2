// Package topic implements read access to the forum core's topics and posts
// tables. This subsystem never writes to them; the forum owns both.
package topic

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/forumkit/doccat-backend/internal/adapter/postgres"
	"github.com/forumkit/doccat-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides topic and post reads backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new topic reader.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const topicColumns = `
    id, category_id, title, slug, archetype, visible, deleted_at, created_at, updated_at`

const getByIDSQL = `
SELECT` + topicColumns + `
FROM topics
WHERE id = $1`

const getByIDsSQL = `
SELECT` + topicColumns + `
FROM topics
WHERE id = ANY($1::bigint[])`

const firstPostSQL = `
SELECT id, topic_id, post_number, cooked, deleted_at, created_at, updated_at
FROM posts
WHERE topic_id = $1 AND post_number = 1`

// GetByID returns a topic by primary key, including trashed (soft-deleted)
// topics — callers inspect DeletedAt themselves. Returns domain.ErrNotFound
// when no row exists.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Topic, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	t, err := scanTopic(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "topic", id)
	}

	return t, nil
}

// GetByIDs returns the topics for the given id set in a single query, keyed
// by id. Missing ids are simply absent from the map. This is the bulk load
// the refresher and projection use to bound the cost of large indexes.
func (r *Repo) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Topic, error) {
	result := make(map[int64]*domain.Topic, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("get topics by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("get topics by ids: %w", err)
		}
		result[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get topics by ids: %w", err)
	}

	return result, nil
}

// FirstPost returns the opening post of a topic. Returns domain.ErrNotFound
// when the topic has no first post.
func (r *Repo) FirstPost(ctx context.Context, topicID int64) (*domain.Post, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		post      domain.Post
		deletedAt pgtype.Timestamptz
	)
	err := querier.QueryRow(ctx, firstPostSQL, topicID).Scan(
		&post.ID, &post.TopicID, &post.PostNumber, &post.Cooked,
		&deletedAt, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "post", topicID)
	}

	if deletedAt.Valid {
		t := deletedAt.Time
		post.DeletedAt = &t
	}

	return &post, nil
}

// ListCategoryTopicIDs returns the ids of live regular topics in the given
// categories, used by the reports to diff against the materialized index.
// Trashed topics and PMs are always excluded; invisible topics only when
// visibleOnly is set.
func (r *Repo) ListCategoryTopicIDs(ctx context.Context, categoryIDs []int64, visibleOnly bool) ([]int64, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}

	builder := psql.
		Select("id").
		From("topics").
		Where(sq.Eq{"category_id": categoryIDs}).
		Where(sq.Eq{"archetype": domain.ArchetypeRegular}).
		Where(sq.Eq{"deleted_at": nil}).
		OrderBy("id")

	if visibleOnly {
		builder = builder.Where(sq.Eq{"visible": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list category topic ids: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list category topic ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list category topic ids: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list category topic ids: %w", err)
	}

	return ids, nil
}

func scanTopic(row pgx.Row) (*domain.Topic, error) {
	var (
		t          domain.Topic
		categoryID pgtype.Int8
		deletedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&t.ID, &categoryID, &t.Title, &t.Slug, &t.Archetype,
		&t.Visible, &deletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		id := categoryID.Int64
		t.CategoryID = &id
	}
	if deletedAt.Valid {
		dt := deletedAt.Time
		t.DeletedAt = &dt
	}

	return &t, nil
}
