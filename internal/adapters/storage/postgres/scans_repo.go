package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-visit-summary/internal/domain/scans"
)

type ScansRepo struct {
	db *sql.DB
}

func NewScansRepo(db *sql.DB) *ScansRepo {
	return &ScansRepo{db: db}
}

func (r *ScansRepo) Create(ctx context.Context, s scans.ScanRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scan_records (
			id, pet_id, status,
			product_name, brand,
			ingredients, unsafe_ingredients,
			created_at, completed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, scanArgs(s)...)
	return err
}

func (r *ScansRepo) Update(ctx context.Context, s scans.ScanRecord) error {
	args := scanArgs(s)
	res, err := r.db.ExecContext(ctx, `
		UPDATE scan_records
		SET
			status = $3,
			product_name = $4,
			brand = $5,
			ingredients = $6,
			unsafe_ingredients = $7,
			created_at = $8,
			completed_at = $9
		WHERE id = $1 AND pet_id = $2
	`, args...)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return scans.ErrNotFound
	}
	return nil
}

func (r *ScansRepo) GetByID(ctx context.Context, id string) (scans.ScanRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return scans.ScanRecord{}, scans.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, pet_id, status, product_name, brand,
		       ingredients, unsafe_ingredients, created_at, completed_at
		FROM scan_records
		WHERE id = $1
	`, id)

	s, err := scanScanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return scans.ScanRecord{}, scans.ErrNotFound
		}
		return scans.ScanRecord{}, err
	}
	return s, nil
}

func (r *ScansRepo) ListByPet(ctx context.Context, petID string, filter scans.ListFilter) ([]scans.ScanRecord, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, pet_id, status, product_name, brand,
		       ingredients, unsafe_ingredients, created_at, completed_at
		FROM scan_records
		WHERE pet_id = $1
	`)

	args := []any{petID}
	argN := 2

	if filter.CompletedOnly {
		sb.WriteString(" AND status = 'completed'")
	}
	if filter.From != nil {
		// Para escaneos completados la fecha relevante es completed_at.
		sb.WriteString(fmt.Sprintf(" AND COALESCE(completed_at, created_at) >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	sb.WriteString(" ORDER BY created_at DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]scans.ScanRecord, 0)
	for rows.Next() {
		s, err := scanScanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanArgs(s scans.ScanRecord) []any {
	var productName, brand string
	ingredients, unsafe := "[]", "[]"
	if s.Analysis != nil {
		productName = s.Analysis.ProductName
		brand = s.Analysis.Brand
		ingredients = encodeList(s.Analysis.Ingredients)
		unsafe = encodeList(s.Analysis.UnsafeIngredients)
	}
	return []any{
		s.ID,
		s.PetID,
		string(s.Status),
		productName,
		brand,
		ingredients,
		unsafe,
		s.CreatedAt,
		toNullTime(s.CompletedAt),
	}
}

func scanScanRecord(row rowScanner) (scans.ScanRecord, error) {
	var s scans.ScanRecord
	var status, productName, brand, ingredients, unsafe string
	var completedAt sql.NullTime

	if err := row.Scan(
		&s.ID,
		&s.PetID,
		&status,
		&productName,
		&brand,
		&ingredients,
		&unsafe,
		&s.CreatedAt,
		&completedAt,
	); err != nil {
		return scans.ScanRecord{}, err
	}

	s.Status = scans.Status(status)
	if completedAt.Valid {
		t := completedAt.Time
		s.CompletedAt = &t
	}
	if s.Status == scans.StatusCompleted {
		s.Analysis = &scans.ScanAnalysis{
			ProductName:       productName,
			Brand:             brand,
			Ingredients:       decodeList(ingredients),
			UnsafeIngredients: decodeList(unsafe),
		}
	}

	return s, nil
}
