package repositories

import (
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It wraps the underlying driver error text.
	ErrDatabaseError = errors.New("database error")
)

// SQLExecutor is satisfied by *sqlx.DB and *sqlx.Tx, so write paths can run
// either directly on the pool or inside a transaction.
type SQLExecutor interface {
	sqlx.ExtContext
}
