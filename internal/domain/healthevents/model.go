package healthevents

import "time"

// Category clasifica el evento de salud.
// @Enum vomiting, diarrhea, itching, lethargy, vet_visit, other
type Category string

const (
	CategoryVomiting Category = "vomiting"
	CategoryDiarrhea Category = "diarrhea"
	CategoryItching  Category = "itching"
	CategoryLethargy Category = "lethargy"
	CategoryVetVisit Category = "vet_visit"
	CategoryOther    Category = "other"
)

// ValidCategory reporta si c es una categoría conocida.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryVomiting, CategoryDiarrhea, CategoryItching,
		CategoryLethargy, CategoryVetVisit, CategoryOther:
		return true
	}
	return false
}

// Severidad permitida: 1 (leve) a 5 (crítico).
const (
	MinSeverity = 1
	MaxSeverity = 5
)

// HealthEvent es un evento de salud observado por el dueño.
type HealthEvent struct {
	ID    string
	PetID string

	OccurredAt time.Time
	RecordedAt time.Time

	Category Category
	Title    string
	Severity int // 1-5
	Notes    string
}
