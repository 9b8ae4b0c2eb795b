package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-visit-summary/internal/domain/feedings"
)

type FeedingsRepo struct {
	db *sql.DB
}

func NewFeedingsRepo(db *sql.DB) *FeedingsRepo {
	return &FeedingsRepo{db: db}
}

func (r *FeedingsRepo) Create(ctx context.Context, f feedings.FeedingRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feeding_records (
			id, pet_id,
			food_name, brand,
			fed_at, notes,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		f.ID,
		f.PetID,
		f.FoodName,
		f.Brand,
		f.FedAt,
		f.Notes,
		f.CreatedAt,
	)
	return err
}

func (r *FeedingsRepo) GetByID(ctx context.Context, id string) (feedings.FeedingRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return feedings.FeedingRecord{}, feedings.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, pet_id, food_name, brand, fed_at, notes, created_at
		FROM feeding_records
		WHERE id = $1
	`, id)

	var f feedings.FeedingRecord
	if err := row.Scan(&f.ID, &f.PetID, &f.FoodName, &f.Brand, &f.FedAt, &f.Notes, &f.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return feedings.FeedingRecord{}, feedings.ErrNotFound
		}
		return feedings.FeedingRecord{}, err
	}
	return f, nil
}

func (r *FeedingsRepo) ListByPet(ctx context.Context, petID string, filter feedings.ListFilter) ([]feedings.FeedingRecord, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, pet_id, food_name, brand, fed_at, notes, created_at
		FROM feeding_records
		WHERE pet_id = $1
	`)

	args := []any{petID}
	argN := 2

	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND fed_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND fed_at <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	sb.WriteString(" ORDER BY fed_at DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]feedings.FeedingRecord, 0)
	for rows.Next() {
		var f feedings.FeedingRecord
		if err := rows.Scan(&f.ID, &f.PetID, &f.FoodName, &f.Brand, &f.FedAt, &f.Notes, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FeedingsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM feeding_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return feedings.ErrNotFound
	}
	return nil
}
