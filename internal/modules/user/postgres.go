package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
)

const pqUniqueViolation = "23505"

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (email, password_hash, name, role, store_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Name, string(user.Role), nullableInt(user.StoreID),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, password_hash, name, role, store_id, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return scanUser(r.db.QueryRowContext(ctx, query, email), nil)
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, email, password_hash, name, role, store_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return scanUser(r.db.QueryRowContext(ctx, query, id), nil)
}

func (r *postgresRepository) SearchByName(ctx context.Context, q string, limit int) ([]Mention, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name FROM users
		WHERE name ILIKE $1
		ORDER BY name ASC, id ASC
		LIMIT $2`, "%"+escapeLike(q)+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMentions(rows)
}

type rowScanner interface{ Scan(dest ...interface{}) error }

// scanUser reads one users row. decodeTime converts integer timestamps;
// nil means the driver scans timestamps directly.
func scanUser(row rowScanner, decodeTime func(created, updated int64, u *User)) (*User, error) {
	user := &User{}
	var role string
	var storeID sql.NullInt64
	var err error
	if decodeTime == nil {
		err = row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &role, &storeID,
			&user.CreatedAt, &user.UpdatedAt)
	} else {
		var created, updated int64
		err = row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &role, &storeID,
			&created, &updated)
		if err == nil {
			decodeTime(created, updated, user)
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	user.Role = access.ParseRole(role)
	if storeID.Valid {
		v := storeID.Int64
		user.StoreID = &v
	}
	return user, nil
}

func scanMentions(rows *sql.Rows) ([]Mention, error) {
	var out []Mention
	for rows.Next() {
		var m Mention
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func nullableInt(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
