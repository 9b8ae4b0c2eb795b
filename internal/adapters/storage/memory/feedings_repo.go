package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-visit-summary/internal/domain/feedings"
)

type feedingRepo struct {
	mu   sync.RWMutex
	byID map[string]feedings.FeedingRecord
}

func NewFeedingRepo() feedings.Repository {
	return &feedingRepo{
		byID: make(map[string]feedings.FeedingRecord),
	}
}

func (r *feedingRepo) Create(ctx context.Context, f feedings.FeedingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f.ID == "" {
		return errors.New("feeding id required")
	}
	if _, exists := r.byID[f.ID]; exists {
		return errors.New("feeding already exists")
	}
	r.byID[f.ID] = f
	return nil
}

func (r *feedingRepo) GetByID(ctx context.Context, id string) (feedings.FeedingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return feedings.FeedingRecord{}, feedings.ErrNotFound
	}
	return f, nil
}

func (r *feedingRepo) ListByPet(ctx context.Context, petID string, filter feedings.ListFilter) ([]feedings.FeedingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	out := make([]feedings.FeedingRecord, 0)
	for _, f := range r.byID {
		if f.PetID != petID {
			continue
		}
		if filter.From != nil && f.FedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && f.FedAt.After(*filter.To) {
			continue
		}
		out = append(out, f)
	}

	// Orden por fed_at desc (más reciente primero)
	sort.Slice(out, func(i, j int) bool {
		return out[i].FedAt.After(out[j].FedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *feedingRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return feedings.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
