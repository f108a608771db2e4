package leads

import "context"

// Repo defines persistence operations for leads.
type Repo interface {
	Create(ctx context.Context, lead Lead) error
	Get(ctx context.Context, id string) (Lead, error)
	// Update overwrites the mutable delivery fields: status, archive key, last error and delivered at.
	// A delivered lead is never rewritten; Update returns ErrDelivered instead.
	Update(ctx context.Context, lead Lead) error
	ListRecent(ctx context.Context, limit int) ([]Lead, error)
}
