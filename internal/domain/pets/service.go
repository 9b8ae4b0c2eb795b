package pets

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
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
	Name               string
	Species            string
	Breed              string
	Sex                string
	BirthDate          *time.Time
	KnownSensitivities []string
	WeightKg           *float64
	Notes              string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	species := strings.ToLower(strings.TrimSpace(in.Species))
	if !ValidSpecies(Species(species)) {
		return Pet{}, ErrInvalidInput
	}
	sex := strings.ToLower(strings.TrimSpace(in.Sex))
	if sex == "" {
		sex = string(SexUnknown)
	}
	if !ValidSex(Sex(sex)) {
		return Pet{}, ErrInvalidInput
	}
	if in.WeightKg != nil && *in.WeightKg <= 0 {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:                 uuid.NewString(),
		OwnerUserID:        ownerUserID,
		Name:               strings.TrimSpace(in.Name),
		Species:            species,
		Breed:              strings.TrimSpace(in.Breed),
		Sex:                sex,
		BirthDate:          in.BirthDate,
		KnownSensitivities: normalizeSensitivities(in.KnownSensitivities),
		Notes:              strings.TrimSpace(in.Notes),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if in.WeightKg != nil {
		w := *in.WeightKg
		p.WeightKg = &w
		p.WeightRecordedAt = &now
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// UpdateProfileInput usa punteros para PATCH real: nil = no tocar.
type UpdateProfileInput struct {
	Name      *string
	Species   *string
	Breed     *string
	Sex       *string
	BirthDate *time.Time
	// ClearBirthDate distingue "birth_date": null (limpiar) de "no enviado".
	ClearBirthDate bool
	Notes          *string
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species != nil {
		species := strings.ToLower(strings.TrimSpace(*in.Species))
		if !ValidSpecies(Species(species)) {
			return Pet{}, ErrInvalidInput
		}
		p.Species = species
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Sex != nil {
		sex := strings.ToLower(strings.TrimSpace(*in.Sex))
		if !ValidSex(Sex(sex)) {
			return Pet{}, ErrInvalidInput
		}
		p.Sex = sex
	}
	if in.ClearBirthDate {
		p.BirthDate = nil
	} else if in.BirthDate != nil {
		p.BirthDate = in.BirthDate
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// SetWeight registra el peso actual de la mascota.
// No acumula histórico: pisa el valor anterior (ver nota en model.go).
func (s *Service) SetWeight(ctx context.Context, id string, weightKg float64) (Pet, error) {
	if weightKg <= 0 {
		return Pet{}, ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	now := s.now()
	p.WeightKg = &weightKg
	p.WeightRecordedAt = &now
	p.UpdatedAt = now

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// AddSensitivity declara una sensibilidad conocida (idempotente).
func (s *Service) AddSensitivity(ctx context.Context, id, term string) (Pet, error) {
	norm := normalizeSensitivity(term)
	if norm == "" {
		return Pet{}, ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	if p.HasSensitivity(norm) {
		return p, nil
	}

	p.KnownSensitivities = append(p.KnownSensitivities, norm)
	sort.Strings(p.KnownSensitivities)
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// RemoveSensitivity quita una sensibilidad declarada (idempotente).
func (s *Service) RemoveSensitivity(ctx context.Context, id, term string) (Pet, error) {
	norm := normalizeSensitivity(term)
	if norm == "" {
		return Pet{}, ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	out := p.KnownSensitivities[:0]
	for _, t := range p.KnownSensitivities {
		if t != norm {
			out = append(out, t)
		}
	}
	p.KnownSensitivities = out
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func normalizeSensitivity(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func normalizeSensitivities(terms []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		n := normalizeSensitivity(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
