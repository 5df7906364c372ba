package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
)

var (
	// ErrNotFound is returned when a store id does not exist.
	ErrNotFound  = errors.New("store not found")
	ErrInvalid   = errors.New("invalid store")
	ErrForbidden = errors.New("only admins may add stores")
	ErrExists    = errors.New("store id already in use")
)

// CreateStoreRequest adds a store. A zero ID lets the database assign one.
type CreateStoreRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Service exposes the store list used for display-name resolution.
type Service interface {
	ListStores(ctx context.Context) ([]*Store, error)
	GetStore(ctx context.Context, id int64) (*Store, error)
	CreateStore(ctx context.Context, actor access.Principal, req CreateStoreRequest) (*Store, error)
	// Names returns an index of every store, for projecting jobs.
	Names(ctx context.Context) (NameIndex, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) ListStores(ctx context.Context) ([]*Store, error) {
	stores, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if stores == nil {
		stores = []*Store{}
	}
	return stores, nil
}

func (s *service) GetStore(ctx context.Context, id int64) (*Store, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) CreateStore(ctx context.Context, actor access.Principal, req CreateStoreRequest) (*Store, error) {
	if actor.Role != access.RoleAdmin {
		return nil, ErrForbidden
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if req.ID < 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalid)
	}
	st := &Store{ID: req.ID, Name: name}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) Names(ctx context.Context) (NameIndex, error) {
	stores, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewNameIndex(stores), nil
}
