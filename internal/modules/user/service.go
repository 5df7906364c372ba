package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrInvalid    = errors.New("invalid user")
	ErrForbidden  = errors.New("only admins can manage users")
)

// MentionLimit caps autocomplete results.
const MentionLimit = 10

// MinPasswordLength is enforced on registration.
const MinPasswordLength = 8

// Service defines the interface for user-related business logic.
type Service interface {
	RegisterUser(ctx context.Context, actor access.Principal, req RegisterRequest) (*User, error)
	// EnsureAdmin creates an admin account unless the email already exists.
	EnsureAdmin(ctx context.Context, email, password, name string) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	Mentions(ctx context.Context, q string) ([]Mention, error)
}

type service struct {
	repo Repository
	cost int
}

// NewService creates a new user service.
func NewService(repo Repository) Service {
	return &service{repo: repo, cost: bcrypt.DefaultCost}
}

func (s *service) RegisterUser(ctx context.Context, actor access.Principal, req RegisterRequest) (*User, error) {
	if actor.Role != access.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.create(ctx, req)
}

func (s *service) EnsureAdmin(ctx context.Context, email, password, name string) (*User, error) {
	existing, err := s.repo.GetUserByEmail(ctx, normaliseEmail(email))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if name == "" {
		name = "Administrator"
	}
	return s.create(ctx, RegisterRequest{Email: email, Password: password, Name: name, Role: string(access.RoleAdmin)})
}

func (s *service) create(ctx context.Context, req RegisterRequest) (*User, error) {
	email := normaliseEmail(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", ErrInvalid, req.Email)
	}
	if len(req.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalid, MinPasswordLength)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	role := access.ParseRole(req.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalid, req.Role)
	}
	var storeID *int64
	switch {
	case role == access.RoleStore || role == access.RoleStaff:
		if req.StoreID == nil || *req.StoreID <= 0 {
			return nil, fmt.Errorf("%w: role %q requires a store", ErrInvalid, role)
		}
		v := *req.StoreID
		storeID = &v
	case req.StoreID != nil:
		return nil, fmt.Errorf("%w: role %q is not bound to a store", ErrInvalid, role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		Role:         role,
		StoreID:      storeID,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) Mentions(ctx context.Context, q string) ([]Mention, error) {
	q = strings.TrimPrefix(strings.TrimSpace(q), "@")
	if q == "" {
		return []Mention{}, nil
	}
	found, err := s.repo.SearchByName(ctx, q, MentionLimit)
	if err != nil {
		return nil, err
	}
	if found == nil {
		found = []Mention{}
	}
	return found, nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
