package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-visit-summary/internal/domain/healthevents"
)

type HealthEventsRepo struct {
	db *sql.DB
}

func NewHealthEventsRepo(db *sql.DB) *HealthEventsRepo {
	return &HealthEventsRepo{db: db}
}

func (r *HealthEventsRepo) Create(ctx context.Context, e healthevents.HealthEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_events (
			id, pet_id,
			category, title, severity,
			occurred_at, recorded_at,
			notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.ID,
		e.PetID,
		string(e.Category),
		e.Title,
		e.Severity,
		e.OccurredAt,
		e.RecordedAt,
		e.Notes,
	)
	return err
}

func (r *HealthEventsRepo) GetByID(ctx context.Context, id string) (healthevents.HealthEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return healthevents.HealthEvent{}, healthevents.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, pet_id, category, title, severity, occurred_at, recorded_at, notes
		FROM health_events
		WHERE id = $1
	`, id)

	e, err := scanHealthEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return healthevents.HealthEvent{}, healthevents.ErrNotFound
		}
		return healthevents.HealthEvent{}, err
	}
	return e, nil
}

func (r *HealthEventsRepo) ListByPet(ctx context.Context, petID string, filter healthevents.ListFilter) ([]healthevents.HealthEvent, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, pet_id, category, title, severity, occurred_at, recorded_at, notes
		FROM health_events
		WHERE pet_id = $1
	`)

	args := []any{petID}
	argN := 2

	if len(filter.Categories) > 0 {
		placeholders := make([]string, 0, len(filter.Categories))
		for _, c := range filter.Categories {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, string(c))
			argN++
		}
		sb.WriteString(" AND category IN (" + strings.Join(placeholders, ",") + ")")
	}
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at <= $%d", argN))
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

	sb.WriteString(" ORDER BY occurred_at DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]healthevents.HealthEvent, 0)
	for rows.Next() {
		e, err := scanHealthEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *HealthEventsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM health_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return healthevents.ErrNotFound
	}
	return nil
}

func scanHealthEvent(row rowScanner) (healthevents.HealthEvent, error) {
	var e healthevents.HealthEvent
	var category string

	if err := row.Scan(
		&e.ID,
		&e.PetID,
		&category,
		&e.Title,
		&e.Severity,
		&e.OccurredAt,
		&e.RecordedAt,
		&e.Notes,
	); err != nil {
		return healthevents.HealthEvent{}, err
	}

	e.Category = healthevents.Category(category)
	return e, nil
}
