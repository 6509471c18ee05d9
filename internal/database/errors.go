package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate value")
)

const uniqueViolation = "23505"

// DuplicateError is returned when an insert or update hits a unique constraint.
type DuplicateError struct {
	Constraint string
	err        error
}

func (e *DuplicateError) Error() string {
	return "duplicate value violates " + e.Constraint
}

func (e *DuplicateError) Unwrap() error { return e.err }

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// Field guesses the model field behind the violated constraint.
func (e *DuplicateError) Field() string {
	for _, f := range []string{"username", "email", "slug", "name"} {
		if strings.Contains(e.Constraint, f) {
			return f
		}
	}
	return ""
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &DuplicateError{Constraint: pgErr.ConstraintName, err: err}
	}
	return err
}
