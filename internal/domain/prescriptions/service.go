package prescriptions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Medication  string
	Dosage      string
	DosageTimes []TimeOfDay
}

// Normalize limpia los campos de texto del formulario.
func (in CreateInput) Normalize() CreateInput {
	in.Medication = strings.TrimSpace(in.Medication)
	in.Dosage = strings.TrimSpace(in.Dosage)
	return in
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Prescription, error) {
	in = in.Normalize()

	if in.Medication == "" || in.Dosage == "" {
		return Prescription{}, ErrInvalidInput
	}
	// Toda receta lleva al menos una hora de dosis; el núcleo de scheduling
	// asume la invariante y falla rápido si no se cumple.
	if len(in.DosageTimes) == 0 {
		return Prescription{}, ErrInvalidInput
	}

	now := s.now()
	p := Prescription{
		ID:          uuid.NewString(),
		Medication:  in.Medication,
		Dosage:      in.Dosage,
		DosageTimes: append([]TimeOfDay(nil), in.DosageTimes...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Prescription{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Prescription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Prescription{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetMany(ctx context.Context, ids []string) ([]Prescription, error) {
	if len(ids) == 0 {
		return []Prescription{}, nil
	}
	return s.repo.GetMany(ctx, ids)
}

// Delete elimina una receta huérfana (sin pacientes que la referencien).
// El chequeo de orfandad lo hace el módulo de pacientes, que conoce el vínculo.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
