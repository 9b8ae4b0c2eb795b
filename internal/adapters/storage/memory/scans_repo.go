package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-visit-summary/internal/domain/scans"
)

type scanRepo struct {
	mu   sync.RWMutex
	byID map[string]scans.ScanRecord
}

func NewScanRepo() scans.Repository {
	return &scanRepo{
		byID: make(map[string]scans.ScanRecord),
	}
}

func (r *scanRepo) Create(ctx context.Context, s scans.ScanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		return errors.New("scan id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("scan already exists")
	}
	r.byID[s.ID] = cloneScan(s)
	return nil
}

func (r *scanRepo) Update(ctx context.Context, s scans.ScanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[s.ID]; !exists {
		return scans.ErrNotFound
	}
	r.byID[s.ID] = cloneScan(s)
	return nil
}

func (r *scanRepo) GetByID(ctx context.Context, id string) (scans.ScanRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return scans.ScanRecord{}, scans.ErrNotFound
	}
	return cloneScan(s), nil
}

func (r *scanRepo) ListByPet(ctx context.Context, petID string, filter scans.ListFilter) ([]scans.ScanRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	out := make([]scans.ScanRecord, 0)
	for _, s := range r.byID {
		if s.PetID != petID {
			continue
		}
		if filter.CompletedOnly && s.Status != scans.StatusCompleted {
			continue
		}
		if filter.From != nil {
			// Para escaneos completados filtra por completed_at.
			ref := s.CreatedAt
			if s.CompletedAt != nil {
				ref = *s.CompletedAt
			}
			if ref.Before(*filter.From) {
				continue
			}
		}
		out = append(out, cloneScan(s))
	}

	// Orden por created_at desc (más reciente primero)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// cloneScan copia el análisis para que el caller no mute lo guardado.
func cloneScan(s scans.ScanRecord) scans.ScanRecord {
	out := s
	if s.Analysis != nil {
		a := *s.Analysis
		a.Ingredients = append([]string(nil), s.Analysis.Ingredients...)
		a.UnsafeIngredients = append([]string(nil), s.Analysis.UnsafeIngredients...)
		out.Analysis = &a
	}
	return out
}
