package medications

import "time"

// Reminder es un recordatorio de medicación.
// EndDate nil significa tratamiento en curso (sin fecha de fin).
type Reminder struct {
	ID    string
	PetID string

	Name      string
	Dosage    string // "2"
	DoseUnit  string // "ml", "mg", etc.
	Frequency string // texto por ahora: "cada 12h"

	StartDate time.Time
	EndDate   *time.Time

	Notes string

	CreatedAt time.Time
}

// ActiveAt reporta si la medicación está activa en el instante t:
// start <= t y (sin fin o fin >= t). Se compara a nivel de día
// para no cortar un tratamiento a mitad del último día.
func (m Reminder) ActiveAt(t time.Time) bool {
	day := t.Truncate(24 * time.Hour)
	if m.StartDate.After(t) {
		return false
	}
	if m.EndDate == nil {
		return true
	}
	return !m.EndDate.Truncate(24 * time.Hour).Before(day)
}
