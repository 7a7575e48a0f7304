package staff

import "context"

type Repository interface {
	// Create returns ErrStaffAlreadyExists on duplicate ID.
	Create(ctx context.Context, s Staff) error

	// GetByID returns ErrStaffNotFound if absent.
	GetByID(ctx context.Context, id string) (Staff, error)

	// List returns staff in registration order.
	List(ctx context.Context) ([]Staff, error)

	// Rename replaces the full name. Recorded visits keep the old name.
	Rename(ctx context.Context, id, fullName string) (Staff, error)

	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)
}
