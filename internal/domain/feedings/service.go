package feedings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("feeding record not found")
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

type LogInput struct {
	FoodName string
	Brand    string
	FedAt    time.Time
	Notes    string
}

func (s *Service) Log(ctx context.Context, petID string, in LogInput) (FeedingRecord, error) {
	if strings.TrimSpace(petID) == "" {
		return FeedingRecord{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.FoodName) == "" {
		return FeedingRecord{}, ErrInvalidInput
	}
	if in.FedAt.IsZero() {
		return FeedingRecord{}, ErrInvalidInput
	}

	now := s.now()
	if in.FedAt.After(now) {
		return FeedingRecord{}, ErrInvalidInput
	}

	f := FeedingRecord{
		ID:        uuid.NewString(),
		PetID:     petID,
		FoodName:  strings.TrimSpace(in.FoodName),
		Brand:     strings.TrimSpace(in.Brand),
		FedAt:     in.FedAt,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return FeedingRecord{}, err
	}
	return f, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string, filter ListFilter) ([]FeedingRecord, error) {
	return s.repo.ListByPet(ctx, petID, filter)
}

func (s *Service) Delete(ctx context.Context, petID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}

	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f.PetID != petID {
		return ErrNotFound
	}

	return s.repo.Delete(ctx, id)
}
