package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUserExists is returned when a user with the same mail or id is already stored.
	ErrUserExists = errors.New("user exists")
	// ErrInvalidCredentials is returned when no user matches a mail/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidValue is returned when an update value cannot be converted to the column type.
	ErrInvalidValue = errors.New("invalid value")
)

const pgUniqueViolation = "23505"

// isDuplicateKey reports whether err is a unique constraint violation.
// gorm translates the common cases into gorm.ErrDuplicatedKey, the driver
// specific checks cover errors that bypassed the translator.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
