package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"memocha/internal/domain/prescriptions"
)

type PrescriptionsRepo struct {
	db *sql.DB
}

func NewPrescriptionsRepo(db *sql.DB) *PrescriptionsRepo {
	return &PrescriptionsRepo{db: db}
}

func (r *PrescriptionsRepo) Create(ctx context.Context, p prescriptions.Prescription) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prescriptions (
			id, medication, dosage, dosage_times,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		p.ID,
		p.Medication,
		p.Dosage,
		encodeDosageTimes(p.DosageTimes),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PrescriptionsRepo) GetByID(ctx context.Context, id string) (prescriptions.Prescription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return prescriptions.Prescription{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, medication, dosage, dosage_times, created_at, updated_at
		FROM prescriptions
		WHERE id = $1
	`, id)

	return scanPrescription(row)
}

// GetMany devuelve las recetas en el orden de los IDs pedidos.
func (r *PrescriptionsRepo) GetMany(ctx context.Context, ids []string) ([]prescriptions.Prescription, error) {
	if len(ids) == 0 {
		return []prescriptions.Prescription{}, nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, medication, dosage, dosage_times, created_at, updated_at
		FROM prescriptions
		WHERE id IN (`+strings.Join(placeholders, ",")+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]prescriptions.Prescription, len(ids))
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]prescriptions.Prescription, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, ErrNotFound
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PrescriptionsRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrescription(row rowScanner) (prescriptions.Prescription, error) {
	var p prescriptions.Prescription
	var rawTimes string
	if err := row.Scan(
		&p.ID,
		&p.Medication,
		&p.Dosage,
		&rawTimes,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return prescriptions.Prescription{}, ErrNotFound
		}
		return prescriptions.Prescription{}, err
	}

	times, err := decodeDosageTimes(rawTimes)
	if err != nil {
		return prescriptions.Prescription{}, err
	}
	p.DosageTimes = times
	return p, nil
}

// Las horas de dosis viajan como "HH:MM:SS,HH:MM:SS,..." en una columna
// TEXT. El original las guardaba como time[]; con database/sql el array
// necesita el modo nativo de pgx, así que se aplana para quedarse en el
// driver stdlib.
func encodeDosageTimes(times []prescriptions.TimeOfDay) string {
	parts := make([]string, 0, len(times))
	for _, t := range times {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ",")
}

func decodeDosageTimes(raw string) ([]prescriptions.TimeOfDay, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []prescriptions.TimeOfDay{}, nil
	}

	parts := strings.Split(raw, ",")
	out := make([]prescriptions.TimeOfDay, 0, len(parts))
	for _, part := range parts {
		t, err := prescriptions.ParseTimeOfDay(part)
		if err != nil {
			return nil, fmt.Errorf("corrupt dosage_times column: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}
