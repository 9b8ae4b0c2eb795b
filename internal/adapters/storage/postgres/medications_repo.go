package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-visit-summary/internal/domain/medications"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Reminder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medication_reminders (
			id, pet_id,
			name, dosage, dose_unit, frequency,
			start_date, end_date,
			notes,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		m.ID,
		m.PetID,
		m.Name,
		m.Dosage,
		m.DoseUnit,
		m.Frequency,
		m.StartDate,
		toNullTime(m.EndDate),
		m.Notes,
		m.CreatedAt,
	)
	return err
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Reminder) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medication_reminders
		SET
			name = $2,
			dosage = $3,
			dose_unit = $4,
			frequency = $5,
			start_date = $6,
			end_date = $7,
			notes = $8
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.Dosage,
		m.DoseUnit,
		m.Frequency,
		m.StartDate,
		toNullTime(m.EndDate),
		m.Notes,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Reminder, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Reminder{}, medications.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, pet_id, name, dosage, dose_unit, frequency,
		       start_date, end_date, notes, created_at
		FROM medication_reminders
		WHERE id = $1
	`, id)

	m, err := scanReminder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return medications.Reminder{}, medications.ErrNotFound
		}
		return medications.Reminder{}, err
	}
	return m, nil
}

func (r *MedicationsRepo) ListByPet(ctx context.Context, petID string) ([]medications.Reminder, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, name, dosage, dose_unit, frequency,
		       start_date, end_date, notes, created_at
		FROM medication_reminders
		WHERE pet_id = $1
		ORDER BY start_date DESC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Reminder, 0)
	for rows.Next() {
		m, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medication_reminders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func scanReminder(row rowScanner) (medications.Reminder, error) {
	var m medications.Reminder
	var endDate sql.NullTime

	if err := row.Scan(
		&m.ID,
		&m.PetID,
		&m.Name,
		&m.Dosage,
		&m.DoseUnit,
		&m.Frequency,
		&m.StartDate,
		&endDate,
		&m.Notes,
		&m.CreatedAt,
	); err != nil {
		return medications.Reminder{}, err
	}

	if endDate.Valid {
		t := endDate.Time
		m.EndDate = &t
	}
	return m, nil
}
