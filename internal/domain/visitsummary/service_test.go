package visitsummary

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"pet-visit-summary/internal/domain/healthevents"
	"pet-visit-summary/internal/domain/medications"
	"pet-visit-summary/internal/domain/pets"
	"pet-visit-summary/internal/platform/logger"
)

type fakeFoodSource struct {
	records []FoodRecord
	err     error
	onFetch func(ctx context.Context)
}

func (f *fakeFoodSource) FetchFoodRecords(ctx context.Context, petID string, since time.Time) ([]FoodRecord, error) {
	if f.onFetch != nil {
		f.onFetch(ctx)
	}
	return f.records, f.err
}

type fakeWeightSource struct {
	points  []WeightDataPoint
	err     error
	onFetch func(ctx context.Context)
}

func (f *fakeWeightSource) FetchWeightHistory(ctx context.Context, petID string, since time.Time) ([]WeightDataPoint, error) {
	if f.onFetch != nil {
		f.onFetch(ctx)
	}
	return f.points, f.err
}

type fakeMedicationSource struct {
	reminders []medications.Reminder
	err       error
	onFetch   func(ctx context.Context)
}

func (f *fakeMedicationSource) FetchReminders(ctx context.Context, petID string) ([]medications.Reminder, error) {
	if f.onFetch != nil {
		f.onFetch(ctx)
	}
	return f.reminders, f.err
}

type fakeHealthEventSource struct {
	events  []healthevents.HealthEvent
	err     error
	onFetch func(ctx context.Context)
}

func (f *fakeHealthEventSource) FetchRecent(ctx context.Context, petID string, limit int) ([]healthevents.HealthEvent, error) {
	if f.onFetch != nil {
		f.onFetch(ctx)
	}
	return f.events, f.err
}

func testLogger() logger.Logger {
	return logger.New(logger.Options{Level: logger.Error})
}

func testPet() pets.Pet {
	w := 12.5
	return pets.Pet{
		ID:                 "pet-1",
		OwnerUserID:        "owner-1",
		Name:               "Buddy",
		Species:            "dog",
		Breed:              "beagle",
		WeightKg:           &w,
		KnownSensitivities: []string{"fish"},
	}
}

func newTestService(food FoodSource, weight WeightSource, meds MedicationSource, events HealthEventSource) *Service {
	if food == nil {
		food = &fakeFoodSource{}
	}
	if weight == nil {
		weight = &fakeWeightSource{}
	}
	if meds == nil {
		meds = &fakeMedicationSource{}
	}
	if events == nil {
		events = &fakeHealthEventSource{}
	}
	return NewService(food, weight, meds, events, testLogger())
}

func TestGenerate_AllSourcesEmpty(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	summary, err := svc.Generate(context.Background(), testPet(), Range30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.ID == "" {
		t.Fatal("expected generated id")
	}
	if summary.RangeDays != 30 {
		t.Fatalf("expected range 30, got %d", summary.RangeDays)
	}
	if len(summary.FoodChanges) != 0 {
		t.Fatalf("expected no food changes, got %d", len(summary.FoodChanges))
	}
	if summary.WeightTrend.Trend != TrendInsufficient {
		t.Fatalf("expected insufficient trend, got %s", summary.WeightTrend.Trend)
	}
	if summary.WeightTrend.PercentChange != nil {
		t.Fatal("expected nil percent change")
	}
	if len(summary.ActiveMedications) != 0 || len(summary.HealthEvents) != 0 {
		t.Fatal("expected empty medications and events")
	}

	st := svc.State()
	if st.Status != StatusLoaded {
		t.Fatalf("expected loaded, got %s", st.Status)
	}
	if st.Summary == nil || st.Summary.ID != summary.ID {
		t.Fatal("expected current summary to match returned one")
	}
}

func TestGenerate_BestEffortSourcesDegrade(t *testing.T) {
	svc := newTestService(
		nil,
		nil,
		&fakeMedicationSource{err: errors.New("meds backend down")},
		&fakeHealthEventSource{err: errors.New("events backend down")},
	)

	summary, err := svc.Generate(context.Background(), testPet(), Range60)
	if err != nil {
		t.Fatalf("best-effort failures must not abort generation: %v", err)
	}
	if len(summary.ActiveMedications) != 0 {
		t.Fatalf("expected empty medications, got %d", len(summary.ActiveMedications))
	}
	if len(summary.HealthEvents) != 0 {
		t.Fatalf("expected empty health events, got %d", len(summary.HealthEvents))
	}

	if st := svc.State(); st.Status != StatusLoaded {
		t.Fatalf("expected loaded after best-effort degradation, got %s", st.Status)
	}
}

func TestGenerate_FoodFailureAborts(t *testing.T) {
	svc := newTestService(
		&fakeFoodSource{err: errors.New("feedings unavailable")},
		nil, nil, nil,
	)

	_, err := svc.Generate(context.Background(), testPet(), Range30)
	if err == nil {
		t.Fatal("expected error when food source fails")
	}
	if !strings.Contains(err.Error(), "food records") {
		t.Fatalf("expected wrapped food error, got %v", err)
	}

	st := svc.State()
	if st.Status != StatusErrored {
		t.Fatalf("expected errored, got %s", st.Status)
	}
	if st.Summary != nil {
		t.Fatal("failed generation must not leave a summary")
	}
	if st.ErrMessage == "" {
		t.Fatal("expected error message in state")
	}
}

func TestGenerate_WeightFailureAborts(t *testing.T) {
	svc := newTestService(
		nil,
		&fakeWeightSource{err: errors.New("profile unavailable")},
		nil, nil,
	)

	_, err := svc.Generate(context.Background(), testPet(), Range30)
	if err == nil {
		t.Fatal("expected error when weight source fails")
	}
	if !strings.Contains(err.Error(), "weight history") {
		t.Fatalf("expected wrapped weight error, got %v", err)
	}
}

func TestGenerate_FailureClearsPreviousSummary(t *testing.T) {
	food := &fakeFoodSource{}
	svc := newTestService(food, nil, nil, nil)

	if _, err := svc.Generate(context.Background(), testPet(), Range30); err != nil {
		t.Fatalf("first generation: %v", err)
	}
	if st := svc.State(); st.Summary == nil {
		t.Fatal("expected summary after first generation")
	}

	food.err = errors.New("boom")
	if _, err := svc.Generate(context.Background(), testPet(), Range30); err == nil {
		t.Fatal("expected second generation to fail")
	}

	st := svc.State()
	if st.Status != StatusErrored || st.Summary != nil {
		t.Fatalf("expected errored state without summary, got status=%s summary=%v", st.Status, st.Summary)
	}
}

func TestClear_ReturnsToIdle(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	if _, err := svc.Generate(context.Background(), testPet(), Range30); err != nil {
		t.Fatalf("generate: %v", err)
	}

	svc.Clear()

	st := svc.State()
	if st.Status != StatusIdle || st.Summary != nil || st.ErrMessage != "" {
		t.Fatalf("expected clean idle state, got %+v", st)
	}
}

func TestState_CarriesGenerateOwner(t *testing.T) {
	food := &fakeFoodSource{}
	svc := newTestService(food, nil, nil, nil)

	if _, err := svc.Generate(context.Background(), testPet(), Range30); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if st := svc.State(); st.OwnerUserID != "owner-1" {
		t.Fatalf("expected owner-1 in loaded state, got %q", st.OwnerUserID)
	}

	food.err = errors.New("boom")
	if _, err := svc.Generate(context.Background(), testPet(), Range30); err == nil {
		t.Fatal("expected failed generation")
	}
	if st := svc.State(); st.Status != StatusErrored || st.OwnerUserID != "owner-1" {
		t.Fatalf("errored state must keep the owner, got %+v", svc.State())
	}

	svc.Clear()
	if st := svc.State(); st.OwnerUserID != "" {
		t.Fatalf("idle state must not keep an owner, got %q", st.OwnerUserID)
	}
}

func TestGenerate_UsesPetSnapshotAndSensitivities(t *testing.T) {
	day := time.Now().AddDate(0, 0, -5)
	svc := newTestService(
		&fakeFoodSource{records: []FoodRecord{
			{Date: day, Name: "Fish Stew", Ingredients: []string{"fish", "potato"}},
		}},
		nil, nil, nil,
	)

	summary, err := svc.Generate(context.Background(), testPet(), Range30)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if summary.Pet.Name != "Buddy" || summary.Pet.Species != "dog" {
		t.Fatalf("unexpected snapshot %+v", summary.Pet)
	}
	if summary.Pet.WeightKg == nil || *summary.Pet.WeightKg != 12.5 {
		t.Fatal("expected snapshot weight")
	}
	if len(summary.KnownSensitivities) != 1 || summary.KnownSensitivities[0] != "fish" {
		t.Fatalf("expected sensitivities copied, got %v", summary.KnownSensitivities)
	}
	if summary.FlaggedIngredientCount() != 1 {
		t.Fatalf("expected 1 flagged ingredient, got %d", summary.FlaggedIngredientCount())
	}
	if summary.OwnerNotes != "" {
		t.Fatal("owner notes must start empty")
	}
}

// Los cuatro fetch deben correr en paralelo: cada fake espera en una
// barrera compartida que solo se abre cuando los cuatro llegaron. Una
// implementación secuencial se queda bloqueada y dispara el timeout.
func TestGenerate_SourcesRunConcurrently(t *testing.T) {
	var (
		mu      sync.Mutex
		arrived int
	)
	release := make(chan struct{})

	checkpoint := func(ctx context.Context) {
		mu.Lock()
		arrived++
		if arrived == 4 {
			close(release)
		}
		mu.Unlock()

		select {
		case <-release:
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
		}
	}

	svc := newTestService(
		&fakeFoodSource{onFetch: checkpoint},
		&fakeWeightSource{onFetch: checkpoint},
		&fakeMedicationSource{onFetch: checkpoint},
		&fakeHealthEventSource{onFetch: checkpoint},
	)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Generate(context.Background(), testPet(), Range30)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("generate did not finish; sources are probably not running in parallel")
	}

	select {
	case <-release:
	default:
		t.Fatal("not all sources were in flight at the same time")
	}
}

func TestGenerate_ContextCancellationPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	blocked := &fakeFoodSource{onFetch: func(ctx context.Context) {
		<-ctx.Done()
	}}
	// La falla de comida es load-bearing: devolver el error del ctx.
	blocked.err = context.Canceled

	svc := newTestService(blocked, nil, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Generate(ctx, testPet(), Range30)
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected error after cancellation")
		}
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("generate did not observe cancellation")
	}
}

func TestParseRange(t *testing.T) {
	for _, days := range []int{30, 60, 90} {
		if _, err := ParseRange(days); err != nil {
			t.Fatalf("expected %d to be valid: %v", days, err)
		}
	}
	for _, days := range []int{0, -30, 45, 365} {
		if _, err := ParseRange(days); !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("expected ErrInvalidRange for %d", days)
		}
	}
}
