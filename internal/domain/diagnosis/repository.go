package diagnosis

import "context"

type Repository interface {
	// Create returns ErrDiagnosisAlreadyExists on duplicate code.
	Create(ctx context.Context, d Diagnosis) error

	// GetByCode returns ErrDiagnosisNotFound if absent.
	GetByCode(ctx context.Context, code string) (Diagnosis, error)

	// List returns the catalog in creation order.
	List(ctx context.Context) ([]Diagnosis, error)

	UpdateDescription(ctx context.Context, code, description string) (Diagnosis, error)

	Delete(ctx context.Context, code string) error

	Count(ctx context.Context) (int, error)
}
