package joblog

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("job not found")
	ErrForbidden = errors.New("not allowed for this job")
	ErrInvalid   = errors.New("invalid request")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Postgres error codes surfaced as validation failures.
const (
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// classify maps driver constraint errors onto the package sentinels.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: unknown store or job (%s)", ErrInvalid, pqErr.Constraint)
		case pqCheckViolation:
			return fmt.Errorf("%w: %s", ErrInvalid, pqErr.Message)
		}
	}
	return err
}
