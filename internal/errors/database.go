package errors

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// PostgreSQL error codes
const (
	PgErrorCodeCheckViolation      = "23514"
	PgErrorCodeUniqueViolation     = "23505"
	PgErrorCodeForeignKeyViolation = "23503"
	PgErrorCodeNotNullViolation    = "23502"
	PgErrorCodeLockNotAvailable    = "55P03"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// InsufficientIngredientError represents an attempt to use more of an
// ingredient than the player owns
type InsufficientIngredientError struct {
	IngredientID string `json:"ingredient_id"`
	Name         string `json:"name"`
	Requested    int    `json:"requested"`
	Available    int    `json:"available"`
}

func (e *InsufficientIngredientError) Error() string {
	return fmt.Sprintf("insufficient ingredient %s (%s): requested %d, available %d",
		e.Name, e.IngredientID, e.Requested, e.Available)
}

// ConcurrentOperationError represents a race condition or lock contention
type ConcurrentOperationError struct {
	Operation string `json:"operation"`
	Resource  string `json:"resource"`
	Message   string `json:"message"`
}

func (e *ConcurrentOperationError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is (or wraps) ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInsufficientIngredient reports whether err is an InsufficientIngredientError
func IsInsufficientIngredient(err error) (*InsufficientIngredientError, bool) {
	var target *InsufficientIngredientError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// IsConcurrentOperation reports whether err is a ConcurrentOperationError
func IsConcurrentOperation(err error) bool {
	var target *ConcurrentOperationError
	return errors.As(err, &target)
}

// HandleDatabaseError converts PostgreSQL errors to business-specific errors
func HandleDatabaseError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Wrapf(ErrNotFound, "%s", operation)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return handlePostgreSQLError(pgErr, operation)
	}

	return errors.Wrapf(err, "%s", operation)
}

// handlePostgreSQLError handles specific PostgreSQL error codes
func handlePostgreSQLError(pgErr *pgconn.PgError, operation string) error {
	switch pgErr.Code {
	case PgErrorCodeLockNotAvailable:
		return &ConcurrentOperationError{
			Operation: operation,
			Resource:  resourceFromTable(pgErr.TableName),
			Message:   "Resource is currently locked by another transaction. Please retry.",
		}

	case PgErrorCodeCheckViolation:
		return errors.Errorf("constraint violation during %s: %s", operation, pgErr.Message)

	case PgErrorCodeUniqueViolation:
		return errors.Errorf("duplicate %s: %s", operation, pgErr.Message)

	case PgErrorCodeForeignKeyViolation:
		return errors.Errorf("invalid reference during %s: %s", operation, pgErr.Message)

	case PgErrorCodeNotNullViolation:
		return errors.Errorf("missing required field during %s: %s", operation, pgErr.Message)

	default:
		return errors.Errorf("database error during %s: %s", operation, pgErr.Message)
	}
}

func resourceFromTable(table string) string {
	if table == "" {
		return "unknown_resource"
	}
	return table
}
