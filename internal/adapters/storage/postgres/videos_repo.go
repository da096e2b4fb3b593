package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"memocha/internal/domain/videos"
)

type VideosRepo struct {
	db *sql.DB
}

func NewVideosRepo(db *sql.DB) *VideosRepo {
	return &VideosRepo{db: db}
}

func (r *VideosRepo) Create(ctx context.Context, v videos.Video) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO videos (
			id, patient_id, prescription_id,
			recorded_at, upload_url, status, reviewed_at,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		v.ID,
		v.PatientID,
		v.PrescriptionID,
		v.RecordedAt,
		v.UploadURL,
		string(v.Status),
		toNullTime(v.ReviewedAt),
		v.CreatedAt,
	)
	return err
}

func (r *VideosRepo) Update(ctx context.Context, v videos.Video) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE videos
		SET status = $2, reviewed_at = $3
		WHERE id = $1
	`,
		v.ID,
		string(v.Status),
		toNullTime(v.ReviewedAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *VideosRepo) GetByID(ctx context.Context, id string) (videos.Video, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return videos.Video{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, patient_id, prescription_id,
			recorded_at, upload_url, status, reviewed_at,
			created_at
		FROM videos
		WHERE id = $1
	`, id)

	return scanVideo(row)
}

func (r *VideosRepo) ListByPatient(ctx context.Context, patientID string, from, to *time.Time) ([]videos.Video, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, patient_id, prescription_id,
			recorded_at, upload_url, status, reviewed_at,
			created_at
		FROM videos
		WHERE patient_id = $1
	`)

	args := []any{patientID}
	argN := 2

	if from != nil {
		sb.WriteString(fmt.Sprintf(" AND recorded_at >= $%d", argN))
		args = append(args, *from)
		argN++
	}
	if to != nil {
		sb.WriteString(fmt.Sprintf(" AND recorded_at <= $%d", argN))
		args = append(args, *to)
		argN++
	}

	sb.WriteString(" ORDER BY recorded_at ASC")

	return r.list(ctx, sb.String(), args...)
}

func (r *VideosRepo) ListInRange(ctx context.Context, patientID, prescriptionID string, from, to time.Time) ([]videos.Video, error) {
	// Ventana inclusiva en ambos extremos, igual que el chequeo
	// "ya grabado" del evaluador.
	return r.list(ctx, `
		SELECT
			id, patient_id, prescription_id,
			recorded_at, upload_url, status, reviewed_at,
			created_at
		FROM videos
		WHERE patient_id = $1
		  AND prescription_id = $2
		  AND recorded_at BETWEEN $3 AND $4
		ORDER BY recorded_at ASC
	`, patientID, prescriptionID, from, to)
}

func (r *VideosRepo) ListPending(ctx context.Context, patientID string) ([]videos.Video, error) {
	return r.list(ctx, `
		SELECT
			id, patient_id, prescription_id,
			recorded_at, upload_url, status, reviewed_at,
			created_at
		FROM videos
		WHERE patient_id = $1 AND status = 'pending'
		ORDER BY recorded_at ASC
	`, patientID)
}

func (r *VideosRepo) list(ctx context.Context, query string, args ...any) ([]videos.Video, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]videos.Video, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVideo(row rowScanner) (videos.Video, error) {
	var v videos.Video
	var status string
	var reviewedAt sql.NullTime
	if err := row.Scan(
		&v.ID,
		&v.PatientID,
		&v.PrescriptionID,
		&v.RecordedAt,
		&v.UploadURL,
		&status,
		&reviewedAt,
		&v.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return videos.Video{}, ErrNotFound
		}
		return videos.Video{}, err
	}

	v.Status = videos.Status(status)
	if reviewedAt.Valid {
		t := reviewedAt.Time
		v.ReviewedAt = &t
	}

	return v, nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
