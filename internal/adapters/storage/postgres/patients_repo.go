package postgres

import (
	"context"
	"database/sql"
	"strings"

	"memocha/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO patients (
			id, doctor_user_id, patient_user_id,
			first_name, last_name, date_of_birth,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		p.ID,
		p.DoctorUserID,
		p.PatientUserID,
		p.FirstName,
		p.LastName,
		p.DateOfBirth,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertPrescriptionLinks(ctx, tx, p.ID, p.PrescriptionIDs); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PatientsRepo) Update(ctx context.Context, p patients.Patient) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE patients
		SET
			patient_user_id = $2,
			first_name = $3,
			last_name = $4,
			date_of_birth = $5,
			updated_at = $6
		WHERE id = $1
	`,
		p.ID,
		p.PatientUserID,
		p.FirstName,
		p.LastName,
		p.DateOfBirth,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}

	// El vínculo se reescribe completo; la sincronización de la ficha ya
	// decidió qué recetas quedan.
	if _, err := tx.ExecContext(ctx, `DELETE FROM patient_prescriptions WHERE patient_id = $1`, p.ID); err != nil {
		return err
	}
	if err := insertPrescriptionLinks(ctx, tx, p.ID, p.PrescriptionIDs); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return patients.Patient{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, doctor_user_id, patient_user_id,
			first_name, last_name, date_of_birth,
			created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)

	var p patients.Patient
	if err := row.Scan(
		&p.ID,
		&p.DoctorUserID,
		&p.PatientUserID,
		&p.FirstName,
		&p.LastName,
		&p.DateOfBirth,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return patients.Patient{}, ErrNotFound
		}
		return patients.Patient{}, err
	}

	ids, err := r.prescriptionIDs(ctx, p.ID)
	if err != nil {
		return patients.Patient{}, err
	}
	p.PrescriptionIDs = ids

	return p, nil
}

func (r *PatientsRepo) ListByDoctor(ctx context.Context, doctorUserID string) ([]patients.Patient, error) {
	doctorUserID = strings.TrimSpace(doctorUserID)
	if doctorUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, doctor_user_id, patient_user_id,
			first_name, last_name, date_of_birth,
			created_at, updated_at
		FROM patients
		WHERE doctor_user_id = $1
		ORDER BY created_at ASC
	`, doctorUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Patient, 0)
	for rows.Next() {
		var p patients.Patient
		if err := rows.Scan(
			&p.ID,
			&p.DoctorUserID,
			&p.PatientUserID,
			&p.FirstName,
			&p.LastName,
			&p.DateOfBirth,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// N+1 asumido: los listados por doctor son chicos.
	for i := range out {
		ids, err := r.prescriptionIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].PrescriptionIDs = ids
	}

	return out, nil
}

func (r *PatientsRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PatientsRepo) CountByPrescription(ctx context.Context, prescriptionID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM patient_prescriptions WHERE prescription_id = $1
	`, prescriptionID).Scan(&n)
	return n, err
}

func (r *PatientsRepo) prescriptionIDs(ctx context.Context, patientID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT prescription_id
		FROM patient_prescriptions
		WHERE patient_id = $1
		ORDER BY position ASC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func insertPrescriptionLinks(ctx context.Context, tx *sql.Tx, patientID string, prescriptionIDs []string) error {
	for i, presID := range prescriptionIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO patient_prescriptions (patient_id, prescription_id, position)
			VALUES ($1,$2,$3)
		`, patientID, presID, i); err != nil {
			return err
		}
	}
	return nil
}
