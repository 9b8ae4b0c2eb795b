package visitsummary

import (
	"testing"
	"time"
)

func day(n int) time.Time {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, n)
}

func TestExtractFoodChanges_DedupKeepsEarliest(t *testing.T) {
	records := []FoodRecord{
		{Date: day(5), Name: "Chicken Mix"},
		{Date: day(1), Name: "chicken  mix"}, // mismo nombre normalizado
		{Date: day(3), Name: "Chicken Mix"},
	}

	out := ExtractFoodChanges(nil, day(0), records)

	if len(out) != 1 {
		t.Fatalf("expected 1 entry after dedup, got %d", len(out))
	}
	if !out[0].Date.Equal(day(1)) {
		t.Fatalf("expected earliest occurrence (day 1), got %v", out[0].Date)
	}
	if out[0].Change != ChangeAdded {
		t.Fatalf("expected added, got %s", out[0].Change)
	}
}

func TestExtractFoodChanges_ClassifiesAddedThenSwitched(t *testing.T) {
	records := []FoodRecord{
		{Date: day(1), Name: "Kibble A"},
		{Date: day(4), Name: "Kibble B"},
		{Date: day(8), Name: "Kibble B"},
	}

	out := ExtractFoodChanges(nil, day(0), records)

	if len(out) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(out))
	}
	// Más reciente primero.
	if out[0].FoodName != "Kibble B" || out[1].FoodName != "Kibble A" {
		t.Fatalf("expected newest-first order, got %q then %q", out[0].FoodName, out[1].FoodName)
	}
	for _, e := range out {
		if e.Change != ChangeAdded {
			t.Fatalf("first occurrence of %q should be added, got %s", e.FoodName, e.Change)
		}
	}
}

func TestExtractFoodChanges_FlagsKnownSensitivity(t *testing.T) {
	records := []FoodRecord{
		{
			Date:        day(2),
			Name:        "Salmon Feast",
			Ingredients: []string{"salmon", "rice", "chicken meal"},
		},
	}

	out := ExtractFoodChanges([]string{"chicken"}, day(0), records)

	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	flags := out[0].FlaggedIngredients
	if len(flags) != 1 {
		t.Fatalf("expected 1 flag, got %d: %+v", len(flags), flags)
	}
	f := flags[0]
	if f.Severity != SeverityKnownSensitivity {
		t.Fatalf("expected known_sensitivity, got %s", f.Severity)
	}
	if f.Reason != "known sensitivity: chicken" {
		t.Fatalf("unexpected reason %q", f.Reason)
	}
	if f.Name != "chicken meal" {
		t.Fatalf("expected flagged ingredient name, got %q", f.Name)
	}
}

func TestExtractFoodChanges_FlagsUnsafeFromAnalysis(t *testing.T) {
	records := []FoodRecord{
		{
			Date:              day(3),
			Name:              "Mystery Treats",
			Ingredients:       []string{"corn", "xylitol"},
			UnsafeIngredients: []string{"xylitol"},
		},
	}

	out := ExtractFoodChanges(nil, day(0), records)

	flags := out[0].FlaggedIngredients
	if len(flags) != 1 {
		t.Fatalf("expected 1 flag, got %d", len(flags))
	}
	if flags[0].Severity != SeverityUnsafe {
		t.Fatalf("expected unsafe, got %s", flags[0].Severity)
	}
	if flags[0].Reason != "identified as potentially unsafe" {
		t.Fatalf("unexpected reason %q", flags[0].Reason)
	}
}

func TestExtractFoodChanges_IgnoresOutOfRangeAndEmptyNames(t *testing.T) {
	records := []FoodRecord{
		{Date: day(-10), Name: "Old Food"},
		{Date: day(2), Name: "   "},
		{Date: day(3), Name: "Valid Food"},
	}

	out := ExtractFoodChanges(nil, day(0), records)

	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	if out[0].FoodName != "Valid Food" {
		t.Fatalf("unexpected entry %q", out[0].FoodName)
	}
}

func TestExtractFoodChanges_EmptyInput(t *testing.T) {
	out := ExtractFoodChanges([]string{"fish"}, day(0), nil)
	if out == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(out) != 0 {
		t.Fatalf("expected 0 entries, got %d", len(out))
	}
}

// Escenario completo: sensibilidad a pescado, dos comidas en ventana,
// registros duplicados de la primera.
func TestExtractFoodChanges_BuddyScenario(t *testing.T) {
	sens := []string{"fish"}
	records := []FoodRecord{
		{Date: day(1), Name: "Chicken Mix", Brand: "Acme", Ingredients: []string{"chicken", "rice"}},
		{Date: day(5), Name: "Chicken Mix", Brand: "Acme", Ingredients: []string{"chicken", "rice"}},
		{Date: day(10), Name: "Fish Stew", Brand: "Acme", Ingredients: []string{"fish", "potato"}},
	}

	out := ExtractFoodChanges(sens, day(0), records)

	if len(out) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(out))
	}

	// Más reciente primero: Fish Stew (día 10), luego Chicken Mix (día 1).
	if out[0].FoodName != "Acme Fish Stew" {
		t.Fatalf("expected Acme Fish Stew first, got %q", out[0].FoodName)
	}
	if len(out[0].FlaggedIngredients) != 1 {
		t.Fatalf("expected 1 flag on fish stew, got %d", len(out[0].FlaggedIngredients))
	}
	if out[0].FlaggedIngredients[0].Severity != SeverityKnownSensitivity {
		t.Fatalf("expected known_sensitivity flag, got %s", out[0].FlaggedIngredients[0].Severity)
	}

	if out[1].FoodName != "Acme Chicken Mix" {
		t.Fatalf("expected Acme Chicken Mix second, got %q", out[1].FoodName)
	}
	if !out[1].Date.Equal(day(1)) {
		t.Fatalf("chicken mix should keep earliest date, got %v", out[1].Date)
	}
	if len(out[1].FlaggedIngredients) != 0 {
		t.Fatalf("expected no flags on chicken mix, got %+v", out[1].FlaggedIngredients)
	}
}
