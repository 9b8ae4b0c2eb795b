package healthevents

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e HealthEvent) error
	GetByID(ctx context.Context, id string) (HealthEvent, error)
	ListByPet(ctx context.Context, petID string, filter ListFilter) ([]HealthEvent, error)
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	Categories []Category
	From       *time.Time
	To         *time.Time
	Limit      int
}
