package patients

import "context"

type Repository interface {
	Create(ctx context.Context, p Patient) error
	Update(ctx context.Context, p Patient) error
	GetByID(ctx context.Context, id string) (Patient, error)
	ListByDoctor(ctx context.Context, doctorUserID string) ([]Patient, error)
	Delete(ctx context.Context, id string) error

	// CountByPrescription cuenta cuántos pacientes referencian la receta.
	// Se usa para borrar recetas huérfanas tras desasignar o eliminar.
	CountByPrescription(ctx context.Context, prescriptionID string) (int, error)
}
