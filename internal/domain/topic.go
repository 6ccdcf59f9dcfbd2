package domain

import (
	"fmt"
	"time"
)

// Topic archetypes as stored by the forum core.
const (
	ArchetypeRegular        = "regular"
	ArchetypePrivateMessage = "private_message"
)

// Topic is a forum topic as seen by this subsystem. Read-only: the forum core
// owns the table. CategoryID is nil for private messages.
type Topic struct {
	ID         int64
	CategoryID *int64
	Title      string
	Slug       string
	Archetype  string
	Visible    bool
	DeletedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsPrivateMessage returns true for PM topics.
func (t *Topic) IsPrivateMessage() bool {
	return t.Archetype == ArchetypePrivateMessage
}

// IsTrashed returns true when the topic has been soft-deleted.
func (t *Topic) IsTrashed() bool {
	return t.DeletedAt != nil
}

// InCategory returns true when the topic belongs directly to the category.
func (t *Topic) InCategory(categoryID int64) bool {
	return t.CategoryID != nil && *t.CategoryID == categoryID
}

// RelativeURL returns the topic's site-relative path.
func (t *Topic) RelativeURL() string {
	return fmt.Sprintf("/t/%s/%d", t.Slug, t.ID)
}

// Post is a forum post. Only the fields this subsystem reads are mapped;
// Cooked is the fully rendered HTML of the post's raw markup.
type Post struct {
	ID         int64
	TopicID    int64
	PostNumber int
	Cooked     string
	DeletedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsFirstPost returns true for the topic's opening post.
func (p *Post) IsFirstPost() bool {
	return p.PostNumber == 1
}

// IsTrashed returns true when the post has been soft-deleted.
func (p *Post) IsTrashed() bool {
	return p.DeletedAt != nil
}
