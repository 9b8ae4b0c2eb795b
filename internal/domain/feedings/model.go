package feedings

import "time"

// FeedingRecord es una entrada del registro de alimentación.
// Inmutable una vez registrada: no hay update, solo borrado
// (para recuperarse de errores de tipeo).
type FeedingRecord struct {
	ID    string
	PetID string

	FoodName string
	Brand    string

	FedAt time.Time
	Notes string

	CreatedAt time.Time
}

// DisplayName combina marca y nombre para mostrar ("Acme ChickenMix").
func (f FeedingRecord) DisplayName() string {
	if f.Brand == "" {
		return f.FoodName
	}
	return f.Brand + " " + f.FoodName
}
