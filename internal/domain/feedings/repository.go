package feedings

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, f FeedingRecord) error
	GetByID(ctx context.Context, id string) (FeedingRecord, error)
	ListByPet(ctx context.Context, petID string, filter ListFilter) ([]FeedingRecord, error)
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}
