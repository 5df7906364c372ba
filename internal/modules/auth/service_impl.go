package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/user"
)

type service struct {
	userRepo user.Repository
	issuer   *access.TokenIssuer
}

// NewService creates a new auth service.
func NewService(userRepo user.Repository, issuer *access.TokenIssuer) Service {
	return &service{userRepo: userRepo, issuer: issuer}
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		log.Printf("auth: failed login for user %d", u.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(u.Principal())
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, User: u}, nil
}
