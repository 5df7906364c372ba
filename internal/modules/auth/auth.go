package auth

import (
	"context"
	"errors"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/user"
)

// ErrInvalidCredentials is returned for an unknown email or wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginResponse carries the bearer token and the signed-in user.
type LoginResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
}
