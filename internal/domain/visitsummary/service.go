package visitsummary

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pet-visit-summary/internal/domain/healthevents"
	"pet-visit-summary/internal/domain/medications"
	"pet-visit-summary/internal/domain/pets"
	"pet-visit-summary/internal/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Status del composer. No se persiste: vive en memoria.
// @Enum idle, loading, loaded, errored
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusErrored Status = "errored"
)

// State es la foto observable del composer. Summary solo está
// presente en loaded; ErrMessage solo en errored. OwnerUserID es el
// dueño de la mascota del último Generate: el estado no es legible ni
// descartable por otros usuarios.
type State struct {
	Status     Status
	Summary    *VisitSummary
	ErrMessage string

	OwnerUserID string
}

// Service orquesta los cuatro extractores y administra el ciclo
// loading/loaded/errored para el consumidor.
//
// Contrato de concurrencia: los cuatro fetch corren en paralelo
// (fuentes disjuntas) y el join espera a todos. Medicaciones y eventos
// de salud son best-effort: si fallan degradan a lista vacía con un
// warn. Comida y peso son load-bearing: su falla aborta la generación.
type Service struct {
	food   FoodSource
	weight WeightSource
	meds   MedicationSource
	events HealthEventSource

	log logger.Logger
	now func() time.Time

	mu    sync.Mutex
	state State
}

func NewService(food FoodSource, weight WeightSource, meds MedicationSource, events HealthEventSource, log logger.Logger) *Service {
	return &Service{
		food:   food,
		weight: weight,
		meds:   meds,
		events: events,
		log:    log,
		now:    time.Now,
		state:  State{Status: StatusIdle},
	}
}

// Generate construye un reporte nuevo para pet en la ventana rng.
// Permitimos llamadas concurrentes: la última en completar gana el
// estado (las lecturas son idempotentes, no hace falta cancelar la
// anterior). La cancelación de ctx sí se propaga a los cuatro fetch.
func (s *Service) Generate(ctx context.Context, pet pets.Pet, rng Range) (VisitSummary, error) {
	s.mu.Lock()
	s.state.Status = StatusLoading
	s.state.OwnerUserID = pet.OwnerUserID
	s.mu.Unlock()

	now := s.now()
	since := rng.Start(now)

	var (
		foodRecords []FoodRecord
		weightPts   []WeightDataPoint
		medsItems   []medications.Reminder
		eventsItems []healthevents.HealthEvent
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		recs, err := s.food.FetchFoodRecords(gctx, pet.ID, since)
		if err != nil {
			return fmt.Errorf("food records: %w", err)
		}
		foodRecords = recs
		return nil
	})

	g.Go(func() error {
		pts, err := s.weight.FetchWeightHistory(gctx, pet.ID, since)
		if err != nil {
			return fmt.Errorf("weight history: %w", err)
		}
		weightPts = pts
		return nil
	})

	g.Go(func() error {
		items, err := s.meds.FetchReminders(gctx, pet.ID)
		if err != nil {
			// Best-effort: nunca bloquea el reporte.
			s.log.Warn("medication fetch failed, continuing with empty list", map[string]any{
				"pet_id": pet.ID,
				"error":  err.Error(),
			})
			return nil
		}
		medsItems = items
		return nil
	})

	g.Go(func() error {
		items, err := s.events.FetchRecent(gctx, pet.ID, recentEventsLimit)
		if err != nil {
			// Best-effort: nunca bloquea el reporte.
			s.log.Warn("health event fetch failed, continuing with empty list", map[string]any{
				"pet_id": pet.ID,
				"error":  err.Error(),
			})
			return nil
		}
		eventsItems = items
		return nil
	})

	if err := g.Wait(); err != nil {
		s.mu.Lock()
		s.state = State{Status: StatusErrored, ErrMessage: err.Error(), OwnerUserID: pet.OwnerUserID}
		s.mu.Unlock()
		return VisitSummary{}, err
	}

	sens := make([]string, len(pet.KnownSensitivities))
	copy(sens, pet.KnownSensitivities)

	summary := VisitSummary{
		ID:          uuid.NewString(),
		Pet:         snapshotPet(pet),
		RangeDays:   int(rng),
		GeneratedAt: now,

		FoodChanges:       ExtractFoodChanges(sens, since, foodRecords),
		WeightTrend:       AnalyzeWeightTrend(weightPts),
		ActiveMedications: SelectActiveMedications(medsItems, now),
		HealthEvents:      SummarizeHealthEvents(eventsItems, since),

		KnownSensitivities: sens,
	}

	s.mu.Lock()
	s.state = State{Status: StatusLoaded, Summary: &summary, OwnerUserID: pet.OwnerUserID}
	s.mu.Unlock()

	return summary, nil
}

// Clear vuelve a idle: sin reporte y sin error.
func (s *Service) Clear() {
	s.mu.Lock()
	s.state = State{Status: StatusIdle}
	s.mu.Unlock()
}

// State devuelve una copia del estado actual. El summary apuntado no
// debe mutarse (es inmutable por contrato).
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func snapshotPet(p pets.Pet) PetSnapshot {
	snap := PetSnapshot{
		ID:      p.ID,
		Name:    p.Name,
		Species: p.Species,
		Breed:   p.Breed,
	}
	if p.WeightKg != nil {
		w := *p.WeightKg
		snap.WeightKg = &w
	}
	return snap
}
