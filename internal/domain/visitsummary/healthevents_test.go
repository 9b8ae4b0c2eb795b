package visitsummary

import (
	"testing"
	"time"

	"pet-visit-summary/internal/domain/healthevents"
)

func TestSummarizeHealthEvents_FiltersAndOrders(t *testing.T) {
	rangeStart := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	events := []healthevents.HealthEvent{
		{
			ID:         "e1",
			Category:   healthevents.CategoryVomiting,
			Title:      "Vómito en la mañana",
			Severity:   3,
			OccurredAt: time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			ID:         "e2",
			Category:   healthevents.CategoryVetVisit,
			Title:      "Control anual",
			Severity:   1,
			OccurredAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), // fuera de ventana
		},
		{
			ID:         "e3",
			Category:   healthevents.CategoryItching,
			Title:      "Rascado persistente",
			Severity:   2,
			OccurredAt: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		},
	}

	out := SummarizeHealthEvents(events, rangeStart)

	if len(out) != 2 {
		t.Fatalf("expected 2 events in range, got %d", len(out))
	}
	if out[0].ID != "e3" || out[1].ID != "e1" {
		t.Fatalf("expected newest-first order e3, e1; got %s, %s", out[0].ID, out[1].ID)
	}
	if out[1].Title != "Vómito en la mañana" || out[1].Severity != 3 {
		t.Fatalf("unexpected mapping: %+v", out[1])
	}
}

func TestSummarizeHealthEvents_Empty(t *testing.T) {
	out := SummarizeHealthEvents(nil, time.Now())
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty slice, got %v", out)
	}
}
