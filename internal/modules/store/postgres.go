package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) List(ctx context.Context) ([]*Store, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM stores ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var stores []*Store
	for rows.Next() {
		s := &Store{}
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*Store, error) {
	s := &Store{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM stores WHERE id=$1`, id).Scan(&s.ID, &s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func (r *postgresRepo) Create(ctx context.Context, s *Store) error {
	var err error
	if s.ID > 0 {
		_, err = r.db.ExecContext(ctx, `INSERT INTO stores (id, name) VALUES ($1, $2)`, s.ID, s.Name)
	} else {
		err = r.db.QueryRowContext(ctx, `INSERT INTO stores (name) VALUES ($1) RETURNING id`, s.Name).Scan(&s.ID)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrExists
	}
	return err
}
