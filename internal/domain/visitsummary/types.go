package visitsummary

import (
	"errors"
	"time"

	"pet-visit-summary/internal/domain/healthevents"
)

// Range es la ventana del reporte en días.
// @Enum 30, 60, 90
type Range int

const (
	Range30 Range = 30
	Range60 Range = 60
	Range90 Range = 90
)

var ErrInvalidRange = errors.New("range_days must be 30, 60 or 90")

func ParseRange(days int) (Range, error) {
	switch days {
	case 30, 60, 90:
		return Range(days), nil
	}
	return 0, ErrInvalidRange
}

// Start devuelve el inicio de la ventana relativo a now.
func (r Range) Start(now time.Time) time.Time {
	return now.AddDate(0, 0, -int(r))
}

// ChangeKind clasifica un cambio de comida dentro de la ventana.
// @Enum added, switched
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeSwitched ChangeKind = "switched"
)

// FlagSeverity es la severidad de un ingrediente marcado.
// @Enum caution, unsafe, known_sensitivity
type FlagSeverity string

const (
	SeverityCaution          FlagSeverity = "caution"
	SeverityUnsafe           FlagSeverity = "unsafe"
	SeverityKnownSensitivity FlagSeverity = "known_sensitivity"
)

// FlaggedIngredient es un ingrediente que coincide con una sensibilidad
// declarada o que el análisis upstream marcó como inseguro.
type FlaggedIngredient struct {
	Name     string
	Reason   string
	Severity FlagSeverity
}

// FoodChangeEntry es una comida introducida en la ventana del reporte.
// Invariante: una entrada por nombre normalizado, la primera
// ocurrencia cronológica gana.
type FoodChangeEntry struct {
	Date               time.Time
	FoodName           string
	Change             ChangeKind
	FlaggedIngredients []FlaggedIngredient
}

// FoodRecord es el registro unificado que consume el extractor de
// cambios de comida: una alimentación o un escaneo completado.
type FoodRecord struct {
	Date  time.Time
	Name  string
	Brand string

	Ingredients       []string
	UnsafeIngredients []string
}

// WeightDataPoint es una muestra de peso fechada.
type WeightDataPoint struct {
	Date     time.Time
	WeightKg float64
}

// Trend es la clasificación gruesa de la tendencia de peso.
// @Enum insufficient, increasing, decreasing, stable
type Trend string

const (
	TrendInsufficient Trend = "insufficient"
	TrendIncreasing   Trend = "increasing"
	TrendDecreasing   Trend = "decreasing"
	TrendStable       Trend = "stable"
)

// WeightTrendData siempre se devuelve, nunca nil: con menos de dos
// muestras la tendencia es insufficient y PercentChange queda nil.
type WeightTrendData struct {
	Points []WeightDataPoint

	StartKg float64
	EndKg   float64
	MinKg   float64
	MaxKg   float64

	PercentChange *float64
	Trend         Trend
}

// HasData reporta si hay muestras suficientes para graficar tendencia.
func (w WeightTrendData) HasData() bool {
	return len(w.Points) >= 2
}

// ActiveMedication es una medicación vigente en formato de display.
type ActiveMedication struct {
	ID        string
	Name      string
	Dosage    string
	Frequency string

	StartDate time.Time
	EndDate   *time.Time
	IsOngoing bool

	// "Started Jan 2, 2026 – Ongoing" o "Jan 2, 2026 – Mar 1, 2026"
	Duration string
}

// HealthEventSummary es un evento de salud en formato de display.
type HealthEventSummary struct {
	ID       string
	Date     time.Time
	Category healthevents.Category
	Title    string
	Severity int
	Notes    string
}

// PetSnapshot es la foto de la mascota al momento de generar.
type PetSnapshot struct {
	ID      string
	Name    string
	Species string
	Breed   string

	WeightKg *float64
}

// VisitSummary es el reporte agregado para la visita al veterinario.
// Inmutable una vez construido; el composer lo reemplaza entero en
// cada regeneración exitosa.
type VisitSummary struct {
	ID          string
	Pet         PetSnapshot
	RangeDays   int
	GeneratedAt time.Time

	FoodChanges       []FoodChangeEntry // más reciente primero
	WeightTrend       WeightTrendData
	ActiveMedications []ActiveMedication
	HealthEvents      []HealthEventSummary // más reciente primero

	KnownSensitivities []string

	// Siempre vacío al generar; el dueño lo completa después desde la UI.
	OwnerNotes string
}

// FlaggedIngredientCount es el total de ingredientes marcados en
// todos los cambios de comida del reporte.
func (v VisitSummary) FlaggedIngredientCount() int {
	n := 0
	for _, fc := range v.FoodChanges {
		n += len(fc.FlaggedIngredients)
	}
	return n
}

// WeightChangePercent expone el cambio porcentual de peso (nil si no
// hay datos suficientes).
func (v VisitSummary) WeightChangePercent() *float64 {
	return v.WeightTrend.PercentChange
}
