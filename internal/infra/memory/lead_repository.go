// Package memory is a process-local lead store for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/xavierca1/ligue-leads/internal/analytics"
	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/query"
)

// LeadRepository keeps leads in a map guarded by a RWMutex. Every read
// returns copies so callers never share state with the store.
type LeadRepository struct {
	mu    sync.RWMutex
	leads map[string]*entity.Lead
}

func NewLeadRepository() *LeadRepository {
	return &LeadRepository{leads: make(map[string]*entity.Lead)}
}

func (r *LeadRepository) Find(ctx context.Context, filter query.Filter, sort query.Sort, skip, limit int) ([]*entity.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	matched := filter.Apply(r.snapshot())
	r.mu.RUnlock()

	query.SortLeads(matched, sort)
	if skip < 0 || skip >= len(matched) {
		return []*entity.Lead{}, nil
	}
	end := len(matched)
	if limit > 0 && limit < end-skip {
		end = skip + limit
	}
	return matched[skip:end], nil
}

func (r *LeadRepository) Count(ctx context.Context, filter query.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, l := range r.leads {
		if filter.Match(l) {
			n++
		}
	}
	return n, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.leads[id]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *lead
	r.leads[lead.ID] = &cp
	return nil
}

func (r *LeadRepository) Update(ctx context.Context, id string, patch entity.LeadPatch) (*entity.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.leads[id]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	updated := l.Apply(patch, entity.Now())
	r.leads[id] = &updated
	out := updated
	return &out, nil
}

func (r *LeadRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.leads[id]; !ok {
		return false, nil
	}
	delete(r.leads, id)
	return true, nil
}

func (r *LeadRepository) Buckets(ctx context.Context) ([]analytics.Bucket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return analytics.Bucketize(r.snapshot()), nil
}

// DeleteAll empties the store and reports how many leads were removed.
func (r *LeadRepository) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.leads))
	clear(r.leads)
	return n, nil
}

// Ping always succeeds.
func (r *LeadRepository) Ping(ctx context.Context) error {
	return nil
}

// snapshot copies every lead. Callers hold at least the read lock.
func (r *LeadRepository) snapshot() []*entity.Lead {
	out := make([]*entity.Lead, 0, len(r.leads))
	for _, l := range r.leads {
		cp := *l
		out = append(out, &cp)
	}
	return out
}
