package joblog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Essateric/chaiiwala-sub001/internal/storage"
)

type sqliteRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository returns a Repository over the embedded SQLite schema.
func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepo{db: db, now: time.Now}
}

const sqliteJobColumns = `id, store_id, description, category, flag, created_by,
	log_date, log_time, attachments, created_at, updated_at`

func (r *sqliteRepo) Create(ctx context.Context, job *Job) error {
	attachments, err := encodeList(job.Attachments)
	if err != nil {
		return err
	}
	now := r.now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO job_logs
		  (store_id, description, category, flag, created_by, log_date, log_time, attachments, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		job.StoreID, job.Description, string(job.Category), string(job.Flag), job.CreatedBy,
		nullable(job.LogDate), nullable(job.LogTime), attachments,
		storage.ToMillis(now), storage.ToMillis(now))
	if err != nil {
		return sqliteClassify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	job.ID = id
	job.CreatedAt = storage.FromMillis(storage.ToMillis(now))
	job.UpdatedAt = job.CreatedAt
	return nil
}

func (r *sqliteRepo) GetByID(ctx context.Context, id int64) (*Job, error) {
	j, err := r.scan(r.db.QueryRowContext(ctx,
		`SELECT `+sqliteJobColumns+` FROM job_logs WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return j, err
}

func (r *sqliteRepo) List(ctx context.Context, filter ListFilter) ([]*Job, error) {
	var where []string
	var args []interface{}
	if !filter.AllStores {
		where = append(where, "store_id=?")
		args = append(args, filter.StoreID)
	}
	if filter.Flag != "" {
		where = append(where, "flag=?")
		args = append(args, string(filter.Flag))
	}
	if filter.Unscheduled {
		where = append(where, "(log_date IS NULL OR log_time IS NULL)")
	}

	query := `SELECT ` + sqliteJobColumns + ` FROM job_logs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY log_date IS NULL, log_date ASC, log_time IS NULL, log_time ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var jobs []*Job
	for rows.Next() {
		j, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *sqliteRepo) UpdateSchedule(ctx context.Context, id int64, slot Slot) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE job_logs SET log_date=?, log_time=?, updated_at=? WHERE id=?`,
		nullable(slot.LogDate), nullable(slot.LogTime), storage.ToMillis(r.now()), id)
	if err != nil {
		return sqliteClassify(err)
	}
	return requireRow(res)
}

func (r *sqliteRepo) UpdateFlag(ctx context.Context, id int64, flag Flag) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE job_logs SET flag=?, updated_at=? WHERE id=?`,
		string(flag), storage.ToMillis(r.now()), id)
	if err != nil {
		return sqliteClassify(err)
	}
	return requireRow(res)
}

func (r *sqliteRepo) AddComment(ctx context.Context, c *Comment) error {
	mentions, err := json.Marshal(nonNilInts(c.MentionedUsers))
	if err != nil {
		return err
	}
	now := r.now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO job_comments (job_id, author_id, author_name, body, mentioned_users, created_at)
		VALUES (?,?,?,?,?,?)`,
		c.JobID, c.AuthorID, c.AuthorName, c.Body, string(mentions), storage.ToMillis(now))
	if err != nil {
		return sqliteClassify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	c.CreatedAt = storage.FromMillis(storage.ToMillis(now))
	return nil
}

func (r *sqliteRepo) ListComments(ctx context.Context, jobID int64) ([]*Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, job_id, author_id, author_name, body, mentioned_users, created_at
		FROM job_comments WHERE job_id=?
		ORDER BY created_at ASC, id ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var comments []*Comment
	for rows.Next() {
		c := &Comment{}
		var mentions string
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.JobID, &c.AuthorID, &c.AuthorName, &c.Body,
			&mentions, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(mentions), &c.MentionedUsers); err != nil {
			return nil, fmt.Errorf("decode mentions for comment %d: %w", c.ID, err)
		}
		c.CreatedAt = storage.FromMillis(createdAt)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *sqliteRepo) scan(row rowScanner) (*Job, error) {
	j := &Job{}
	var category, flag, attachments string
	var logDate, logTime sql.NullString
	var createdAt, updatedAt int64
	err := row.Scan(&j.ID, &j.StoreID, &j.Description, &category, &flag, &j.CreatedBy,
		&logDate, &logTime, &attachments, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	j.Category = Category(category)
	j.Flag = Flag(flag)
	j.LogDate = fromNull(logDate)
	j.LogTime = fromNull(logTime)
	if err := json.Unmarshal([]byte(attachments), &j.Attachments); err != nil {
		return nil, fmt.Errorf("decode attachments for job %d: %w", j.ID, err)
	}
	j.CreatedAt = storage.FromMillis(createdAt)
	j.UpdatedAt = storage.FromMillis(updatedAt)
	return j, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	return string(b), err
}

func nonNilInts(v []int64) []int64 {
	if v == nil {
		return []int64{}
	}
	return v
}

// sqliteClassify maps foreign key failures onto ErrInvalid.
func sqliteClassify(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "foreign key constraint") {
		return fmt.Errorf("%w: unknown store or job", ErrInvalid)
	}
	return err
}
