package user

import "context"

// Repository defines data access for staff accounts.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	// SearchByName returns up to limit users whose name contains q,
	// ignoring case, ordered by name.
	SearchByName(ctx context.Context, q string, limit int) ([]Mention, error)
}
