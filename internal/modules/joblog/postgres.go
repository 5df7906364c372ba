package joblog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const pgJobColumns = `id, store_id, description, category, flag, created_by,
	to_char(log_date, 'YYYY-MM-DD'), to_char(log_time, 'HH24:MI'),
	attachments, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, job *Job) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO job_logs
		  (store_id, description, category, flag, created_by, log_date, log_time, attachments)
		VALUES ($1,$2,$3,$4,$5,$6::date,$7::time,$8)
		RETURNING id, created_at, updated_at`,
		job.StoreID, job.Description, job.Category, job.Flag, job.CreatedBy,
		nullable(job.LogDate), nullable(job.LogTime), pq.Array(job.Attachments)).
		Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*Job, error) {
	j, err := r.scan(r.db.QueryRowContext(ctx,
		`SELECT `+pgJobColumns+` FROM job_logs WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return j, err
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]*Job, error) {
	var where []string
	var args []interface{}
	if !filter.AllStores {
		args = append(args, filter.StoreID)
		where = append(where, fmt.Sprintf("store_id=$%d", len(args)))
	}
	if filter.Flag != "" {
		args = append(args, filter.Flag)
		where = append(where, fmt.Sprintf("flag=$%d", len(args)))
	}
	if filter.Unscheduled {
		where = append(where, "(log_date IS NULL OR log_time IS NULL)")
	}

	query := `SELECT ` + pgJobColumns + ` FROM job_logs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY log_date ASC NULLS LAST, log_time ASC NULLS LAST, id ASC"

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

func (r *postgresRepo) UpdateSchedule(ctx context.Context, id int64, slot Slot) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE job_logs
		SET log_date=$1::date, log_time=$2::time, updated_at=NOW()
		WHERE id=$3`,
		nullable(slot.LogDate), nullable(slot.LogTime), id)
	if err != nil {
		return classify(err)
	}
	return requireRow(res)
}

func (r *postgresRepo) UpdateFlag(ctx context.Context, id int64, flag Flag) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE job_logs SET flag=$1, updated_at=NOW() WHERE id=$2`, flag, id)
	if err != nil {
		return classify(err)
	}
	return requireRow(res)
}

func (r *postgresRepo) AddComment(ctx context.Context, c *Comment) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO job_comments (job_id, author_id, author_name, body, mentioned_users)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at`,
		c.JobID, c.AuthorID, c.AuthorName, c.Body, pq.Array(c.MentionedUsers)).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return classify(err)
	}
	return nil
}

func (r *postgresRepo) ListComments(ctx context.Context, jobID int64) ([]*Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, job_id, author_id, author_name, body, mentioned_users, created_at
		FROM job_comments WHERE job_id=$1
		ORDER BY created_at ASC, id ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var comments []*Comment
	for rows.Next() {
		c := &Comment{}
		if err := rows.Scan(&c.ID, &c.JobID, &c.AuthorID, &c.AuthorName, &c.Body,
			pq.Array(&c.MentionedUsers), &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ── scanner ───────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func (r *postgresRepo) scan(row rowScanner) (*Job, error) {
	j := &Job{}
	var logDate, logTime sql.NullString
	var attachments []string
	err := row.Scan(&j.ID, &j.StoreID, &j.Description, &j.Category, &j.Flag, &j.CreatedBy,
		&logDate, &logTime, pq.Array(&attachments), &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	j.LogDate = fromNull(logDate)
	j.LogTime = fromNull(logTime)
	j.Attachments = attachments
	return j, nil
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
