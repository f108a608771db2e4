package leads

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Lead
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Lead)}
}

// Create stores a new lead.
func (r *MemoryRepo) Create(ctx context.Context, lead Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[lead.ID] = lead
	return nil
}

// Get returns a lead by ID.
func (r *MemoryRepo) Get(ctx context.Context, id string) (Lead, error) {
	if err := ctx.Err(); err != nil {
		return Lead{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	lead, ok := r.data[id]
	if !ok {
		return Lead{}, ErrNotFound
	}
	return lead, nil
}

// Update overwrites delivery fields of an existing lead.
func (r *MemoryRepo) Update(ctx context.Context, lead Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.data[lead.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.Status == StatusDelivered {
		return ErrDelivered
	}
	cur.Status = lead.Status
	cur.ArchiveKey = lead.ArchiveKey
	cur.LastError = lead.LastError
	cur.DeliveredAt = lead.DeliveredAt
	r.data[lead.ID] = cur
	return nil
}

// ListRecent returns up to limit leads, newest first.
func (r *MemoryRepo) ListRecent(ctx context.Context, limit int) ([]Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Lead, 0, len(r.data))
	for _, lead := range r.data {
		out = append(out, lead)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
