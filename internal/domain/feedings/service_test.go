package feedings

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRepo struct {
	byID map[string]FeedingRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]FeedingRecord{}}
}

func (r *fakeRepo) Create(ctx context.Context, f FeedingRecord) error {
	r.byID[f.ID] = f
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (FeedingRecord, error) {
	f, ok := r.byID[id]
	if !ok {
		return FeedingRecord{}, ErrNotFound
	}
	return f, nil
}

func (r *fakeRepo) ListByPet(ctx context.Context, petID string, filter ListFilter) ([]FeedingRecord, error) {
	out := make([]FeedingRecord, 0)
	for _, f := range r.byID {
		if f.PetID == petID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func TestLog_TrimsAndValidates(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	fed := time.Now().Add(-time.Hour)

	f, err := svc.Log(ctx, "pet-1", LogInput{
		FoodName: "  Chicken Mix  ",
		Brand:    " Acme ",
		FedAt:    fed,
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if f.FoodName != "Chicken Mix" || f.Brand != "Acme" {
		t.Fatalf("expected trimmed fields, got %q / %q", f.FoodName, f.Brand)
	}
	if f.DisplayName() != "Acme Chicken Mix" {
		t.Fatalf("unexpected display name %q", f.DisplayName())
	}

	if _, err := svc.Log(ctx, "pet-1", LogInput{FedAt: fed}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input without food name, got %v", err)
	}
	if _, err := svc.Log(ctx, "", LogInput{FoodName: "x", FedAt: fed}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input without pet, got %v", err)
	}
}

func TestLog_RejectsFutureFedAt(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Log(context.Background(), "pet-1", LogInput{
		FoodName: "Chicken Mix",
		FedAt:    time.Now().Add(time.Hour),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for future fed_at, got %v", err)
	}
}

func TestDelete_ChecksOwnership(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	f, err := svc.Log(ctx, "pet-1", LogInput{
		FoodName: "Chicken Mix",
		FedAt:    time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	if err := svc.Delete(ctx, "pet-other", f.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found deleting with wrong pet, got %v", err)
	}
	if err := svc.Delete(ctx, "pet-1", f.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "pet-1", f.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
