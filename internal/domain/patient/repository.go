package patient

import "context"

// Repository holds the active patients. Every method returning a *Patient returns a copy.
type Repository interface {
	// Create inserts a new active patient. Returns ErrPatientAlreadyExists on duplicate active ID.
	Create(ctx context.Context, p *Patient) error

	// GetByID looks up an active patient. Returns ErrPatientNotFound otherwise.
	GetByID(ctx context.Context, id int64) (*Patient, error)

	// List returns active patients in registration order.
	List(ctx context.Context) ([]*Patient, error)

	// Update runs fn against the stored record under the store's write lock.
	// fn must validate before mutating; if it returns an error nothing is kept.
	Update(ctx context.Context, id int64, fn func(p *Patient) error) (*Patient, error)

	// Delete removes an active patient without archiving it.
	Delete(ctx context.Context, id int64) error

	// Discharge atomically moves an active patient into the archive.
	Discharge(ctx context.Context, id int64) (*Patient, error)

	Count(ctx context.Context) (int, error)
}

// Archive is the permanent, read-only view of discharged patients.
type Archive interface {
	// FindByID returns every archived record carrying id, in discharge order.
	// Returns ErrPatientNotFound when there is none.
	FindByID(ctx context.Context, id int64) ([]*Patient, error)

	// List returns archived patients in discharge order.
	List(ctx context.Context) ([]*Patient, error)

	Count(ctx context.Context) (int, error)
}
