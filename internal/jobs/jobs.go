// Package jobs provides the in-process background job queue used to run
// index refreshes outside the request path. Enqueueing is fire-and-forget:
// the triggering mutation never blocks on the job's completion.
package jobs

import (
	"context"
	"fmt"

	"github.com/forumkit/doccat-backend/internal/domain"
)

// Job names.
const (
	RefreshIndex = "doc_categories_refresh_index"
)

// Argument keys.
const (
	ArgCategoryID = "category_id"
)

// Args is a background job payload.
type Args map[string]any

// RefreshIndexArgs builds the payload for a RefreshIndex job.
func RefreshIndexArgs(categoryID int64) Args {
	return Args{ArgCategoryID: categoryID}
}

// CategoryID extracts the category id from a job payload. A missing or
// malformed value is a caller bug, reported as domain.ErrInvalidJobArgs and
// never silently swallowed.
func (a Args) CategoryID() (int64, error) {
	v, ok := a[ArgCategoryID]
	if !ok {
		return 0, fmt.Errorf("%s missing: %w", ArgCategoryID, domain.ErrInvalidJobArgs)
	}

	switch id := v.(type) {
	case int64:
		if id > 0 {
			return id, nil
		}
	case int:
		if id > 0 {
			return int64(id), nil
		}
	case float64:
		if id > 0 && id == float64(int64(id)) {
			return int64(id), nil
		}
	}

	return 0, fmt.Errorf("%s invalid (%v): %w", ArgCategoryID, v, domain.ErrInvalidJobArgs)
}

// Handler executes one job invocation.
type Handler func(ctx context.Context, args Args) error

// Enqueuer is the narrow interface services use to schedule jobs.
type Enqueuer interface {
	Enqueue(ctx context.Context, name string, args Args) error
}
