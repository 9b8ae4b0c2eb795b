package scans

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("scan not found")
	ErrNotPending   = errors.New("scan is not pending")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Create registra un escaneo en estado pending. El análisis llega
// después vía Complete (o Fail si el servicio de análisis no pudo).
func (s *Service) Create(ctx context.Context, petID string) (ScanRecord, error) {
	if strings.TrimSpace(petID) == "" {
		return ScanRecord{}, ErrInvalidInput
	}

	rec := ScanRecord{
		ID:        uuid.NewString(),
		PetID:     petID,
		Status:    StatusPending,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return ScanRecord{}, err
	}
	return rec, nil
}

type CompleteInput struct {
	ProductName       string
	Brand             string
	Ingredients       []string
	UnsafeIngredients []string
}

func (s *Service) Complete(ctx context.Context, id string, in CompleteInput) (ScanRecord, error) {
	rec, err := s.getPending(ctx, id)
	if err != nil {
		return ScanRecord{}, err
	}
	if strings.TrimSpace(in.ProductName) == "" {
		return ScanRecord{}, ErrInvalidInput
	}

	now := s.now()
	rec.Status = StatusCompleted
	rec.CompletedAt = &now
	rec.Analysis = &ScanAnalysis{
		ProductName:       strings.TrimSpace(in.ProductName),
		Brand:             strings.TrimSpace(in.Brand),
		Ingredients:       cleanList(in.Ingredients),
		UnsafeIngredients: cleanList(in.UnsafeIngredients),
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return ScanRecord{}, err
	}
	return rec, nil
}

func (s *Service) Fail(ctx context.Context, id string) (ScanRecord, error) {
	rec, err := s.getPending(ctx, id)
	if err != nil {
		return ScanRecord{}, err
	}

	rec.Status = StatusFailed
	if err := s.repo.Update(ctx, rec); err != nil {
		return ScanRecord{}, err
	}
	return rec, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (ScanRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ScanRecord{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPet(ctx context.Context, petID string, filter ListFilter) ([]ScanRecord, error) {
	return s.repo.ListByPet(ctx, petID, filter)
}

func (s *Service) getPending(ctx context.Context, id string) (ScanRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ScanRecord{}, ErrInvalidInput
	}
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ScanRecord{}, err
	}
	if rec.Status != StatusPending {
		return ScanRecord{}, ErrNotPending
	}
	return rec, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
