package domain

import (
	"fmt"
	"time"
)

// Category is a forum category as seen by this subsystem. The forum core owns
// the table; we read it and never write to it.
type Category struct {
	ID               int64
	ParentCategoryID *int64
	Name             string
	Slug             string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RelativeURL returns the category's site-relative path.
func (c *Category) RelativeURL() string {
	return fmt.Sprintf("/c/%s/%d", c.Slug, c.ID)
}

// IsSubcategory returns true when the category has a parent.
func (c *Category) IsSubcategory() bool {
	return c.ParentCategoryID != nil
}
