package store

import "context"

// Repository defines store data storage.
type Repository interface {
	List(ctx context.Context) ([]*Store, error)
	GetByID(ctx context.Context, id int64) (*Store, error)
	Create(ctx context.Context, s *Store) error
}
