package videos

import (
	"context"
	"errors"
	"strings"
	"time"

	"memocha/internal/domain/patients"
	"memocha/internal/schedule"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")

	// ErrPrescriptionNotAssigned indica que el paciente intentó certificar
	// una dosis de una receta que no tiene asignada.
	ErrPrescriptionNotAssigned = errors.New("prescription not assigned to patient")
)

type Service struct {
	repo     Repository
	patients *patients.Service
	now      func() time.Time
}

func NewService(repo Repository, patientsSvc *patients.Service) *Service {
	return &Service{
		repo:     repo,
		patients: patientsSvc,
		now:      time.Now,
	}
}

type SubmitInput struct {
	PrescriptionID string
	RecordedAt     time.Time
	UploadURL      string
}

// Submit registra la grabación de una dosis. La receta tiene que estar
// asignada al paciente en este momento; después no se re-valida aunque la
// ficha cambie.
func (s *Service) Submit(ctx context.Context, patientID string, in SubmitInput) (Video, error) {
	patientID = strings.TrimSpace(patientID)
	prescriptionID := strings.TrimSpace(in.PrescriptionID)

	if patientID == "" || prescriptionID == "" {
		return Video{}, ErrInvalidInput
	}
	if in.RecordedAt.IsZero() {
		return Video{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.UploadURL) == "" {
		return Video{}, ErrInvalidInput
	}

	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return Video{}, err
	}
	if !p.HasPrescription(prescriptionID) {
		return Video{}, ErrPrescriptionNotAssigned
	}

	v := Video{
		ID:             uuid.NewString(),
		PatientID:      p.ID,
		PrescriptionID: prescriptionID,
		RecordedAt:     in.RecordedAt,
		UploadURL:      strings.TrimSpace(in.UploadURL),
		Status:         StatusPending,
		CreatedAt:      s.now(),
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return Video{}, err
	}
	return v, nil
}

// Review aprueba o desaprueba un video. Solo el doctor del paciente.
// Re-revisar está permitido: la decisión más reciente manda.
func (s *Service) Review(ctx context.Context, videoID, doctorUserID string, decision Status) (Video, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return Video{}, ErrInvalidInput
	}
	if decision != StatusApproved && decision != StatusDisapproved {
		return Video{}, ErrInvalidInput
	}

	v, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return Video{}, err
	}

	p, err := s.patients.GetByID(ctx, v.PatientID)
	if err != nil {
		return Video{}, err
	}
	if p.DoctorUserID != doctorUserID {
		return Video{}, ErrForbidden
	}

	now := s.now()
	v.Status = decision
	v.ReviewedAt = &now

	if err := s.repo.Update(ctx, v); err != nil {
		return Video{}, err
	}
	return v, nil
}

// Pending devuelve los videos del paciente a la espera de revisión.
func (s *Service) Pending(ctx context.Context, patientID string) ([]Video, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListPending(ctx, patientID)
}

// TimelineEntry es un video ya ubicado en su franja de dosis.
type TimelineEntry struct {
	Video  Video
	Record schedule.DosageRecord
}

// Timeline arma el historial de grabaciones del paciente en el rango dado,
// cada una con su franja de dosis correspondiente.
func (s *Service) Timeline(ctx context.Context, patientID string, from, to *time.Time) ([]TimelineEntry, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	vids, err := s.repo.ListByPatient(ctx, p.ID, from, to)
	if err != nil {
		return nil, err
	}

	pres, err := s.patients.Prescriptions(ctx, p)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]int, len(pres))
	for i, pr := range pres {
		byID[pr.ID] = i
	}

	out := make([]TimelineEntry, 0, len(vids))
	for _, v := range vids {
		i, ok := byID[v.PrescriptionID]
		if !ok {
			// La receta pudo haberse desasignado después de grabar;
			// el video sigue siendo parte del historial pero sin franja.
			continue
		}
		rec, err := schedule.CorrespondingDosage(v.RecordedAt, pres[i], string(v.Status))
		if err != nil {
			return nil, err
		}
		out = append(out, TimelineEntry{Video: v, Record: rec})
	}
	return out, nil
}

// HasRecordedDose implementa schedule.VideoLookup: informa si ya existe un
// video de la receta dentro de la ventana [start, end].
func (s *Service) HasRecordedDose(ctx context.Context, patientID, prescriptionID string, start, end time.Time) (bool, error) {
	vids, err := s.repo.ListInRange(ctx, patientID, prescriptionID, start, end)
	if err != nil {
		return false, err
	}
	return len(vids) > 0, nil
}
