package medications

import "context"

type Repository interface {
	Create(ctx context.Context, m Reminder) error
	Update(ctx context.Context, m Reminder) error
	GetByID(ctx context.Context, id string) (Reminder, error)
	ListByPet(ctx context.Context, petID string) ([]Reminder, error)
	Delete(ctx context.Context, id string) error
}
