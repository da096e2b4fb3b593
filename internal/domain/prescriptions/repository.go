package prescriptions

import "context"

type Repository interface {
	Create(ctx context.Context, p Prescription) error
	GetByID(ctx context.Context, id string) (Prescription, error)
	GetMany(ctx context.Context, ids []string) ([]Prescription, error)
	Delete(ctx context.Context, id string) error
}
