package user

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Essateric/chaiiwala-sub001/internal/storage"
)

type sqliteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository creates a user repository over the embedded schema.
func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db, now: time.Now}
}

func (r *sqliteRepository) CreateUser(ctx context.Context, user *User) error {
	now := storage.ToMillis(r.now())
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, name, role, store_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Email, user.PasswordHash, user.Name, string(user.Role), nullableInt(user.StoreID), now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrEmailTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	user.CreatedAt = storage.FromMillis(now)
	user.UpdatedAt = user.CreatedAt
	return nil
}

func (r *sqliteRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, store_id, created_at, updated_at
		FROM users WHERE email = ?`, email), sqliteTimes)
}

func (r *sqliteRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, store_id, created_at, updated_at
		FROM users WHERE id = ?`, id), sqliteTimes)
}

func (r *sqliteRepository) SearchByName(ctx context.Context, q string, limit int) ([]Mention, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name FROM users
		WHERE name LIKE ? ESCAPE '\'
		ORDER BY name COLLATE NOCASE ASC, id ASC
		LIMIT ?`, "%"+escapeLike(q)+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMentions(rows)
}

func sqliteTimes(created, updated int64, u *User) {
	u.CreatedAt = storage.FromMillis(created)
	u.UpdatedAt = storage.FromMillis(updated)
}
