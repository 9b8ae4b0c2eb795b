package scans

import "time"

// Status es el estado del análisis de un escaneo.
// @Enum pending, completed, failed
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ScanAnalysis es el resultado del análisis de ingredientes
// producido por el servicio de análisis (colaborador externo).
type ScanAnalysis struct {
	ProductName string
	Brand       string

	Ingredients []string

	// Ingredientes marcados como potencialmente inseguros por el análisis.
	UnsafeIngredients []string
}

// ScanRecord es un escaneo de producto hecho desde la app.
// Analysis es nil hasta que el escaneo pasa a completed.
type ScanRecord struct {
	ID    string
	PetID string

	Status   Status
	Analysis *ScanAnalysis

	CreatedAt   time.Time
	CompletedAt *time.Time
}

// DisplayName combina marca y producto del análisis, si existe.
func (s ScanRecord) DisplayName() string {
	if s.Analysis == nil {
		return ""
	}
	if s.Analysis.Brand == "" {
		return s.Analysis.ProductName
	}
	return s.Analysis.Brand + " " + s.Analysis.ProductName
}
