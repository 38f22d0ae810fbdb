// internal/apperrors/errors_test.go
package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestClassifyRecordNotFound(t *testing.T) {
	notFound := NewNotFound("listing", uuid.New())

	err := Classify(gorm.ErrRecordNotFound, notFound)

	assert.Equal(t, notFound, err)
	assert.True(t, IsNotFound(err))
}

func TestClassifyWrappedRecordNotFound(t *testing.T) {
	notFound := NewNotFound("contract", uuid.New())
	wrapped := fmt.Errorf("query failed: %w", gorm.ErrRecordNotFound)

	assert.Equal(t, notFound, Classify(wrapped, notFound))
}

// The gorm postgres driver reports server errors as *pgconn.PgError; this
// is the shape a lock_timeout expiry actually arrives in at runtime.
func TestClassifyPgxRetryableCodesBecomeBusy(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03"} {
		t.Run(code, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: code}

			err := Classify(fmt.Errorf("transition failed: %w", pgErr), nil)

			require.True(t, IsBusy(err))
			assert.ErrorIs(t, err, pgErr, "busy error must preserve its cause")
		})
	}
}

func TestClassifyPqRetryableCodesBecomeBusy(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03"} {
		t.Run(code, func(t *testing.T) {
			pqErr := &pq.Error{Code: pq.ErrorCode(code)}

			err := Classify(pqErr, nil)

			require.True(t, IsBusy(err))
			assert.ErrorIs(t, err, pqErr, "busy error must preserve its cause")
		})
	}
}

func TestClassifyPassesThroughOtherErrors(t *testing.T) {
	// unique_violation is not retryable in either driver's error shape
	pgErr := &pgconn.PgError{Code: "23505"}
	assert.Equal(t, error(pgErr), Classify(pgErr, nil))

	pqErr := &pq.Error{Code: "23505"}
	assert.Equal(t, error(pqErr), Classify(pqErr, nil))

	plain := errors.New("connection refused")
	assert.Equal(t, plain, Classify(plain, nil))

	assert.NoError(t, Classify(nil, nil))
}

func TestDetectionHelpersSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("transition failed: %w",
		NewInvalidState(uuid.New(), "ACTIVE", "cancel"))

	assert.True(t, IsInvalidState(err))
	assert.False(t, IsForbidden(err))
}
