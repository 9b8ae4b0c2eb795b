package visitsummary

import (
	"context"
	"fmt"
	"time"

	"pet-visit-summary/internal/domain/feedings"
	"pet-visit-summary/internal/domain/healthevents"
	"pet-visit-summary/internal/domain/medications"
	"pet-visit-summary/internal/domain/pets"
	"pet-visit-summary/internal/domain/scans"
)

// Puertos de datos del composer. Se inyectan por constructor (nada de
// singletons compartidos) para poder sustituir fakes en tests.
//
// Contrato común: "sin registros" es lista vacía, no error.

type FoodSource interface {
	FetchFoodRecords(ctx context.Context, petID string, since time.Time) ([]FoodRecord, error)
}

type WeightSource interface {
	FetchWeightHistory(ctx context.Context, petID string, since time.Time) ([]WeightDataPoint, error)
}

type MedicationSource interface {
	FetchReminders(ctx context.Context, petID string) ([]medications.Reminder, error)
}

type HealthEventSource interface {
	FetchRecent(ctx context.Context, petID string, limit int) ([]healthevents.HealthEvent, error)
}

// Tope de registros pedidos a cada colaborador por generación.
const sourceFetchLimit = 200

// foodSource une alimentaciones y escaneos completados en la lista
// unificada que consume el extractor de cambios de comida.
type foodSource struct {
	feedings *feedings.Service
	scans    *scans.Service
}

func NewFoodSource(feedingsSvc *feedings.Service, scansSvc *scans.Service) FoodSource {
	return &foodSource{feedings: feedingsSvc, scans: scansSvc}
}

func (s *foodSource) FetchFoodRecords(ctx context.Context, petID string, since time.Time) ([]FoodRecord, error) {
	out := make([]FoodRecord, 0)

	fed, err := s.feedings.ListByPet(ctx, petID, feedings.ListFilter{
		From:  &since,
		Limit: sourceFetchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list feedings: %w", err)
	}
	for _, f := range fed {
		out = append(out, FoodRecord{
			Date:  f.FedAt,
			Name:  f.FoodName,
			Brand: f.Brand,
		})
	}

	scanned, err := s.scans.ListByPet(ctx, petID, scans.ListFilter{
		From:          &since,
		CompletedOnly: true,
		Limit:         sourceFetchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	for _, rec := range scanned {
		if rec.Analysis == nil {
			continue
		}
		date := rec.CreatedAt
		if rec.CompletedAt != nil {
			date = *rec.CompletedAt
		}
		out = append(out, FoodRecord{
			Date:              date,
			Name:              rec.Analysis.ProductName,
			Brand:             rec.Analysis.Brand,
			Ingredients:       rec.Analysis.Ingredients,
			UnsafeIngredients: rec.Analysis.UnsafeIngredients,
		})
	}

	return out, nil
}

// petWeightSource deriva la serie de pesos del perfil de la mascota.
// Brecha de datos conocida: no existe tabla histórica de pesos
// todavía, así que esto produce a lo sumo una muestra (el último peso
// registrado) y la tendencia resulta insufficient en la práctica. La
// interfaz ya acepta una serie completa para cuando exista la tabla.
type petWeightSource struct {
	pets *pets.Service
}

func NewWeightSource(petsSvc *pets.Service) WeightSource {
	return &petWeightSource{pets: petsSvc}
}

func (s *petWeightSource) FetchWeightHistory(ctx context.Context, petID string, since time.Time) ([]WeightDataPoint, error) {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, fmt.Errorf("get pet: %w", err)
	}

	out := make([]WeightDataPoint, 0, 1)
	if p.WeightKg != nil && p.WeightRecordedAt != nil && !p.WeightRecordedAt.Before(since) {
		out = append(out, WeightDataPoint{
			Date:     *p.WeightRecordedAt,
			WeightKg: *p.WeightKg,
		})
	}
	return out, nil
}

type medicationSource struct {
	meds *medications.Service
}

func NewMedicationSource(medsSvc *medications.Service) MedicationSource {
	return &medicationSource{meds: medsSvc}
}

func (s *medicationSource) FetchReminders(ctx context.Context, petID string) ([]medications.Reminder, error) {
	return s.meds.ListByPet(ctx, petID)
}

type healthEventSource struct {
	events *healthevents.Service
}

func NewHealthEventSource(eventsSvc *healthevents.Service) HealthEventSource {
	return &healthEventSource{events: eventsSvc}
}

func (s *healthEventSource) FetchRecent(ctx context.Context, petID string, limit int) ([]healthevents.HealthEvent, error) {
	return s.events.ListByPet(ctx, petID, healthevents.ListFilter{Limit: limit})
}
