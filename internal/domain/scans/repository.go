package scans

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s ScanRecord) error
	Update(ctx context.Context, s ScanRecord) error
	GetByID(ctx context.Context, id string) (ScanRecord, error)
	ListByPet(ctx context.Context, petID string, filter ListFilter) ([]ScanRecord, error)
}

type ListFilter struct {
	From          *time.Time
	CompletedOnly bool
	Limit         int
}
