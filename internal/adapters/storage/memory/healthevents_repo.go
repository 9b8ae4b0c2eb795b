package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-visit-summary/internal/domain/healthevents"
)

type healthEventRepo struct {
	mu   sync.RWMutex
	byID map[string]healthevents.HealthEvent
}

func NewHealthEventRepo() healthevents.Repository {
	return &healthEventRepo{
		byID: make(map[string]healthevents.HealthEvent),
	}
}

func (r *healthEventRepo) Create(ctx context.Context, e healthevents.HealthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("health event id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("health event already exists")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *healthEventRepo) GetByID(ctx context.Context, id string) (healthevents.HealthEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return healthevents.HealthEvent{}, healthevents.ErrNotFound
	}
	return e, nil
}

func (r *healthEventRepo) ListByPet(ctx context.Context, petID string, filter healthevents.ListFilter) ([]healthevents.HealthEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	out := make([]healthevents.HealthEvent, 0)
	for _, e := range r.byID {
		if e.PetID != petID {
			continue
		}

		if len(filter.Categories) > 0 {
			ok := false
			for _, c := range filter.Categories {
				if e.Category == c {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}

		if filter.From != nil && e.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.OccurredAt.After(*filter.To) {
			continue
		}

		out = append(out, e)
	}

	// Orden por occurred_at desc (más reciente primero)
	sort.Slice(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *healthEventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return healthevents.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
