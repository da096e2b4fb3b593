package patients

import (
	"context"
	"errors"
	"strings"
	"time"

	"memocha/internal/domain/prescriptions"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo          Repository
	prescriptions *prescriptions.Service
	now           func() time.Time
}

func NewService(repo Repository, presSvc *prescriptions.Service) *Service {
	return &Service{
		repo:          repo,
		prescriptions: presSvc,
		now:           time.Now,
	}
}

type RegisterInput struct {
	FirstName     string
	LastName      string
	DateOfBirth   time.Time
	PatientUserID string

	// Recetas iniciales, creadas junto con la ficha.
	Prescriptions []prescriptions.CreateInput
}

// Register crea la ficha de un paciente con sus recetas iniciales.
func (s *Service) Register(ctx context.Context, doctorUserID string, in RegisterInput) (Patient, error) {
	doctorUserID = strings.TrimSpace(doctorUserID)
	if doctorUserID == "" {
		return Patient{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return Patient{}, ErrInvalidInput
	}
	if in.DateOfBirth.IsZero() {
		return Patient{}, ErrInvalidInput
	}

	now := s.now()
	p := Patient{
		ID:              uuid.NewString(),
		DoctorUserID:    doctorUserID,
		PatientUserID:   strings.TrimSpace(in.PatientUserID),
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		DateOfBirth:     in.DateOfBirth,
		PrescriptionIDs: make([]string, 0, len(in.Prescriptions)),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, presIn := range in.Prescriptions {
		created, err := s.prescriptions.Create(ctx, presIn)
		if err != nil {
			return Patient{}, err
		}
		p.PrescriptionIDs = append(p.PrescriptionIDs, created.ID)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Patient{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// GetForDoctor devuelve la ficha solo si el doctor es quien la registró.
func (s *Service) GetForDoctor(ctx context.Context, id, doctorUserID string) (Patient, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Patient{}, err
	}
	if p.DoctorUserID != doctorUserID {
		return Patient{}, ErrForbidden
	}
	return p, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorUserID string) ([]Patient, error) {
	return s.repo.ListByDoctor(ctx, doctorUserID)
}

// Prescriptions carga las recetas asignadas al paciente, en orden.
func (s *Service) Prescriptions(ctx context.Context, p Patient) ([]prescriptions.Prescription, error) {
	return s.prescriptions.GetMany(ctx, p.PrescriptionIDs)
}

// SyncPrescriptions reemplaza el set de recetas del paciente con el
// formulario completo que manda la ficha del doctor:
//   - una entrada que coincide con una receta existente la conserva,
//   - una entrada nueva crea y asigna una receta,
//   - las recetas existentes ausentes del formulario se desasignan,
//   - y toda receta que queda sin pacientes se borra.
func (s *Service) SyncPrescriptions(ctx context.Context, patientID, doctorUserID string, ins []prescriptions.CreateInput) (Patient, error) {
	p, err := s.GetForDoctor(ctx, patientID, doctorUserID)
	if err != nil {
		return Patient{}, err
	}

	current, err := s.prescriptions.GetMany(ctx, p.PrescriptionIDs)
	if err != nil {
		return Patient{}, err
	}

	// IDs existentes que todavía no aparecieron en el formulario.
	leftover := make(map[string]struct{}, len(current))
	for _, pres := range current {
		leftover[pres.ID] = struct{}{}
	}

	next := make([]string, 0, len(ins))
	for _, in := range ins {
		in = in.Normalize()

		matched := ""
		for _, pres := range current {
			if _, pending := leftover[pres.ID]; pending && pres.Matches(in) {
				matched = pres.ID
				break
			}
		}
		if matched != "" {
			delete(leftover, matched)
			next = append(next, matched)
			continue
		}

		created, err := s.prescriptions.Create(ctx, in)
		if err != nil {
			return Patient{}, err
		}
		next = append(next, created.ID)
	}

	p.PrescriptionIDs = next
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Patient{}, err
	}

	// Limpieza de huérfanas entre las desasignadas.
	for id := range leftover {
		if err := s.deleteIfOrphan(ctx, id); err != nil {
			return Patient{}, err
		}
	}

	return p, nil
}

// Remove elimina la ficha del paciente y las recetas que quedan huérfanas.
func (s *Service) Remove(ctx context.Context, patientID, doctorUserID string) error {
	p, err := s.GetForDoctor(ctx, patientID, doctorUserID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return err
	}

	for _, id := range p.PrescriptionIDs {
		if err := s.deleteIfOrphan(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) deleteIfOrphan(ctx context.Context, prescriptionID string) error {
	n, err := s.repo.CountByPrescription(ctx, prescriptionID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return s.prescriptions.Delete(ctx, prescriptionID)
}
