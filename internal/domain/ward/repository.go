package ward

import "context"

type Repository interface {
	// Create returns ErrWardAlreadyExists on duplicate ID.
	Create(ctx context.Context, w Ward) error

	// GetByID returns ErrWardNotFound if the ward is not registered.
	GetByID(ctx context.Context, id int) (Ward, error)

	// List returns wards in registration order.
	List(ctx context.Context) ([]Ward, error)

	Count(ctx context.Context) (int, error)
}
