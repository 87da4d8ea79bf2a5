package errors

import (
	stderrors "errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHandleDatabaseError_Nil(t *testing.T) {
	assert.NoError(t, HandleDatabaseError(nil, "grant_potion"))
}

func TestHandleDatabaseError_NoRows(t *testing.T) {
	err := HandleDatabaseError(pgx.ErrNoRows, "get_ingredient")

	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "get_ingredient")
}

func TestHandleDatabaseError_LockNotAvailable(t *testing.T) {
	err := HandleDatabaseError(&pgconn.PgError{Code: PgErrorCodeLockNotAvailable, TableName: "player_ingredients"}, "consume_ingredients")

	var concurrent *ConcurrentOperationError
	assert.True(t, stderrors.As(err, &concurrent))
	assert.Equal(t, "player_ingredients", concurrent.Resource)
	assert.True(t, IsConcurrentOperation(err))
}

func TestHandleDatabaseError_Codes(t *testing.T) {
	tests := []struct {
		code     string
		contains string
	}{
		{PgErrorCodeCheckViolation, "constraint violation"},
		{PgErrorCodeUniqueViolation, "duplicate"},
		{PgErrorCodeForeignKeyViolation, "invalid reference"},
		{PgErrorCodeNotNullViolation, "missing required field"},
		{"XX000", "database error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := HandleDatabaseError(&pgconn.PgError{Code: tt.code, Message: "boom"}, "save_formula")
			assert.Contains(t, err.Error(), tt.contains)
			assert.Contains(t, err.Error(), "save_formula")
		})
	}
}

func TestHandleDatabaseError_Other(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := HandleDatabaseError(cause, "list_formulas")

	assert.ErrorIs(t, err, cause)
}

func TestInsufficientIngredientError(t *testing.T) {
	var err error = &InsufficientIngredientError{IngredientID: "abc", Name: "Moonpetal", Requested: 2, Available: 1}

	target, ok := IsInsufficientIngredient(err)
	assert.True(t, ok)
	assert.Equal(t, 2, target.Requested)
	assert.Contains(t, err.Error(), "Moonpetal")
}
