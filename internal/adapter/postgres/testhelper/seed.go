package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forumkit/doccat-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedCategory creates a top-level category and returns it.
func SeedCategory(t *testing.T, pool *pgxpool.Pool) domain.Category {
	t.Helper()
	return seedCategory(t, pool, nil)
}

// SeedSubcategory creates a category under the given parent.
func SeedSubcategory(t *testing.T, pool *pgxpool.Pool, parentID int64) domain.Category {
	t.Helper()
	return seedCategory(t, pool, &parentID)
}

func seedCategory(t *testing.T, pool *pgxpool.Pool, parentID *int64) domain.Category {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	category := domain.Category{
		ParentCategoryID: parentID,
		Name:             "Category " + suffix,
		Slug:             "category-" + suffix,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO categories (parent_category_id, name, slug)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		category.ParentCategoryID, category.Name, category.Slug,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedCategory insert: %v", err)
	}

	return category
}

// SeedTopic creates a visible regular topic in the given category.
func SeedTopic(t *testing.T, pool *pgxpool.Pool, categoryID int64) domain.Topic {
	t.Helper()

	suffix := uniqueSuffix()
	return insertTopic(t, pool, domain.Topic{
		CategoryID: &categoryID,
		Title:      "Topic " + suffix,
		Slug:       "topic-" + suffix,
		Archetype:  domain.ArchetypeRegular,
		Visible:    true,
	})
}

// SeedHiddenTopic creates an invisible regular topic in the given category.
func SeedHiddenTopic(t *testing.T, pool *pgxpool.Pool, categoryID int64) domain.Topic {
	t.Helper()

	suffix := uniqueSuffix()
	return insertTopic(t, pool, domain.Topic{
		CategoryID: &categoryID,
		Title:      "Hidden Topic " + suffix,
		Slug:       "hidden-topic-" + suffix,
		Archetype:  domain.ArchetypeRegular,
		Visible:    false,
	})
}

// SeedTrashedTopic creates a soft-deleted topic in the given category.
func SeedTrashedTopic(t *testing.T, pool *pgxpool.Pool, categoryID int64) domain.Topic {
	t.Helper()

	suffix := uniqueSuffix()
	deletedAt := time.Now().UTC().Truncate(time.Microsecond)
	return insertTopic(t, pool, domain.Topic{
		CategoryID: &categoryID,
		Title:      "Trashed Topic " + suffix,
		Slug:       "trashed-topic-" + suffix,
		Archetype:  domain.ArchetypeRegular,
		Visible:    true,
		DeletedAt:  &deletedAt,
	})
}

// SeedPrivateMessage creates a PM topic. PMs have no category.
func SeedPrivateMessage(t *testing.T, pool *pgxpool.Pool) domain.Topic {
	t.Helper()

	suffix := uniqueSuffix()
	return insertTopic(t, pool, domain.Topic{
		Title:     "Message " + suffix,
		Slug:      "message-" + suffix,
		Archetype: domain.ArchetypePrivateMessage,
		Visible:   true,
	})
}

func insertTopic(t *testing.T, pool *pgxpool.Pool, topic domain.Topic) domain.Topic {
	t.Helper()
	ctx := context.Background()

	err := pool.QueryRow(ctx,
		`INSERT INTO topics (category_id, title, slug, archetype, visible, deleted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		topic.CategoryID, topic.Title, topic.Slug, topic.Archetype, topic.Visible, topic.DeletedAt,
	).Scan(&topic.ID, &topic.CreatedAt, &topic.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: insert topic: %v", err)
	}

	return topic
}

// SeedPost creates a post with the given number and cooked HTML.
func SeedPost(t *testing.T, pool *pgxpool.Pool, topicID int64, postNumber int, cooked string) domain.Post {
	t.Helper()
	ctx := context.Background()

	post := domain.Post{
		TopicID:    topicID,
		PostNumber: postNumber,
		Cooked:     cooked,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO posts (topic_id, post_number, cooked)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		post.TopicID, post.PostNumber, post.Cooked,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedPost insert: %v", err)
	}

	return post
}

// SeedDocIndex binds a category to its index topic directly in the database.
func SeedDocIndex(t *testing.T, pool *pgxpool.Pool, categoryID, indexTopicID int64) domain.DocIndex {
	t.Helper()
	ctx := context.Background()

	index := domain.DocIndex{
		CategoryID:   categoryID,
		IndexTopicID: indexTopicID,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO doc_categories_indexes (category_id, index_topic_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		index.CategoryID, index.IndexTopicID,
	).Scan(&index.ID, &index.CreatedAt, &index.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedDocIndex insert: %v", err)
	}

	return index
}
