package visitsummary

import (
	"sort"
	"time"

	"pet-visit-summary/internal/domain/healthevents"
)

// Cuántos eventos recientes se piden al colaborador antes de filtrar
// por ventana.
const recentEventsLimit = 50

// SummarizeHealthEvents filtra los eventos crudos a la ventana del
// reporte y los mapea a formato de display, más reciente primero.
func SummarizeHealthEvents(events []healthevents.HealthEvent, rangeStart time.Time) []HealthEventSummary {
	out := make([]HealthEventSummary, 0, len(events))

	for _, e := range events {
		if e.OccurredAt.Before(rangeStart) {
			continue
		}
		out = append(out, HealthEventSummary{
			ID:       e.ID,
			Date:     e.OccurredAt,
			Category: e.Category,
			Title:    e.Title,
			Severity: e.Severity,
			Notes:    e.Notes,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	return out
}
