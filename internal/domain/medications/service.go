package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medication not found")
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

type CreateInput struct {
	Name      string
	Dosage    string
	DoseUnit  string
	Frequency string
	StartDate time.Time
	EndDate   *time.Time
	Notes     string
}

func (s *Service) Create(ctx context.Context, petID string, in CreateInput) (Reminder, error) {
	if strings.TrimSpace(petID) == "" {
		return Reminder{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Reminder{}, ErrInvalidInput
	}
	if in.StartDate.IsZero() {
		return Reminder{}, ErrInvalidInput
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return Reminder{}, ErrInvalidInput
	}

	m := Reminder{
		ID:        uuid.NewString(),
		PetID:     petID,
		Name:      strings.TrimSpace(in.Name),
		Dosage:    strings.TrimSpace(in.Dosage),
		DoseUnit:  strings.TrimSpace(in.DoseUnit),
		Frequency: strings.TrimSpace(in.Frequency),
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Reminder{}, err
	}
	return m, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]Reminder, error) {
	return s.repo.ListByPet(ctx, petID)
}

// End cierra un tratamiento en curso fijando su fecha de fin.
func (s *Service) End(ctx context.Context, petID, id string, endDate time.Time) (Reminder, error) {
	m, err := s.getOwned(ctx, petID, id)
	if err != nil {
		return Reminder{}, err
	}
	if endDate.IsZero() || endDate.Before(m.StartDate) {
		return Reminder{}, ErrInvalidInput
	}

	m.EndDate = &endDate
	if err := s.repo.Update(ctx, m); err != nil {
		return Reminder{}, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, petID, id string) error {
	if _, err := s.getOwned(ctx, petID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) getOwned(ctx context.Context, petID, id string) (Reminder, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Reminder{}, ErrInvalidInput
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Reminder{}, err
	}
	if m.PetID != petID {
		return Reminder{}, ErrNotFound
	}
	return m, nil
}
