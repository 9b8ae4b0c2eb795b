package healthevents

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("health event not found")
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

type RecordInput struct {
	OccurredAt time.Time
	Category   Category
	Title      string
	Severity   int
	Notes      string
}

func (s *Service) Record(ctx context.Context, petID string, in RecordInput) (HealthEvent, error) {
	if strings.TrimSpace(petID) == "" {
		return HealthEvent{}, ErrInvalidInput
	}
	if in.OccurredAt.IsZero() {
		return HealthEvent{}, ErrInvalidInput
	}
	if !ValidCategory(in.Category) {
		return HealthEvent{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" {
		return HealthEvent{}, ErrInvalidInput
	}
	if in.Severity < MinSeverity || in.Severity > MaxSeverity {
		return HealthEvent{}, ErrInvalidInput
	}

	e := HealthEvent{
		ID:         uuid.NewString(),
		PetID:      petID,
		OccurredAt: in.OccurredAt,
		RecordedAt: s.now(),
		Category:   in.Category,
		Title:      strings.TrimSpace(in.Title),
		Severity:   in.Severity,
		Notes:      strings.TrimSpace(in.Notes),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return HealthEvent{}, err
	}
	return e, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string, filter ListFilter) ([]HealthEvent, error) {
	return s.repo.ListByPet(ctx, petID, filter)
}

func (s *Service) Delete(ctx context.Context, petID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e.PetID != petID {
		return ErrNotFound
	}

	return s.repo.Delete(ctx, id)
}
