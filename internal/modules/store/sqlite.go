package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

type sqliteRepo struct{ db *sql.DB }

func NewSQLiteRepository(db *sql.DB) Repository { return &sqliteRepo{db: db} }

func (r *sqliteRepo) List(ctx context.Context) ([]*Store, error) {
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

func (r *sqliteRepo) GetByID(ctx context.Context, id int64) (*Store, error) {
	s := &Store{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM stores WHERE id=?`, id).Scan(&s.ID, &s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func (r *sqliteRepo) Create(ctx context.Context, s *Store) error {
	var res sql.Result
	var err error
	if s.ID > 0 {
		res, err = r.db.ExecContext(ctx, `INSERT INTO stores (id, name) VALUES (?, ?)`, s.ID, s.Name)
	} else {
		res, err = r.db.ExecContext(ctx, `INSERT INTO stores (name) VALUES (?)`, s.Name)
	}
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}
