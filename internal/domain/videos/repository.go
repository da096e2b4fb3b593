package videos

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, v Video) error
	Update(ctx context.Context, v Video) error
	GetByID(ctx context.Context, id string) (Video, error)

	// ListByPatient devuelve los videos del paciente ordenados por instante
	// de grabación ascendente, acotados por rango si from/to vienen.
	ListByPatient(ctx context.Context, patientID string, from, to *time.Time) ([]Video, error)

	// ListInRange es la capacidad "videos en ventana" que consume el
	// evaluador de agenda: videos del paciente para una receta con
	// instante de grabación dentro de [from, to] (inclusive).
	ListInRange(ctx context.Context, patientID, prescriptionID string, from, to time.Time) ([]Video, error)

	// ListPending devuelve los videos del paciente aún sin revisar.
	ListPending(ctx context.Context, patientID string) ([]Video, error)
}
