package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// ValidSpecies reporta si s es una especie soportada.
func ValidSpecies(s Species) bool {
	switch s {
	case SpeciesDog, SpeciesCat:
		return true
	default:
		return false
	}
}

// ValidSex reporta si s es un valor de sexo conocido.
func ValidSex(s Sex) bool {
	switch s {
	case SexMale, SexFemale, SexUnknown:
		return true
	default:
		return false
	}
}

// Pet representa el perfil de una mascota registrada en el sistema.
// KnownSensitivities son términos de ingredientes declarados por el dueño
// (la mascota ya reaccionó antes); se guardan normalizados en minúsculas.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species string // dog, cat
	Breed   string
	Sex     string // male, female, unknown

	BirthDate *time.Time

	KnownSensitivities []string

	// Peso actual. Todavía no hay serie histórica de pesos:
	// solo el último valor y cuándo se registró.
	WeightKg         *float64
	WeightRecordedAt *time.Time

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSensitivity reporta si term ya está declarado (case-insensitive).
func (p Pet) HasSensitivity(term string) bool {
	norm := normalizeSensitivity(term)
	for _, s := range p.KnownSensitivities {
		if s == norm {
			return true
		}
	}
	return false
}
