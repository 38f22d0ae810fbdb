// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// NotFoundError reports an unknown listing, contract or user.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFound(resource string, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ForbiddenError reports a caller lacking the role or party standing for an
// operation.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

func NewForbidden(reason string) *ForbiddenError {
	return &ForbiddenError{Reason: reason}
}

// InvalidStateError reports a contract transition attempted from a status
// that does not permit it.
type InvalidStateError struct {
	ContractID uuid.UUID
	Status     string
	Action     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s contract %s in status %s", e.Action, e.ContractID, e.Status)
}

func NewInvalidState(contractID uuid.UUID, status, action string) *InvalidStateError {
	return &InvalidStateError{ContractID: contractID, Status: status, Action: action}
}

// InsufficientAvailableError reports a quantity check failure. Requested and
// Available carry enough context to render a user-facing message.
type InsufficientAvailableError struct {
	ListingID uuid.UUID
	Requested float64
	Available float64
	Unit      string
}

func (e *InsufficientAvailableError) Error() string {
	return fmt.Sprintf("insufficient available quantity on listing %s: requested %g, available %g %s",
		e.ListingID, e.Requested, e.Available, e.Unit)
}

func NewInsufficientAvailable(listingID uuid.UUID, requested, available float64, unit string) *InsufficientAvailableError {
	return &InsufficientAvailableError{ListingID: listingID, Requested: requested, Available: available, Unit: unit}
}

// InvariantViolationError means internal bookkeeping would go negative. It
// indicates a bug in a caller and is always fatal to the operation; counters
// are never silently clamped.
type InvariantViolationError struct {
	ListingID uuid.UUID
	Counter   string
	Detail    string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("inventory invariant violated on listing %s (%s): %s", e.ListingID, e.Counter, e.Detail)
}

func NewInvariantViolation(listingID uuid.UUID, counter, detail string) *InvariantViolationError {
	return &InvariantViolationError{ListingID: listingID, Counter: counter, Detail: detail}
}

// BusyError reports a lock-wait timeout or a transient serialization failure.
// The operation left no partial state and is safe to retry with backoff.
type BusyError struct {
	Cause error
}

func (e *BusyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resource busy, retry later: %v", e.Cause)
	}
	return "resource busy, retry later"
}

func (e *BusyError) Unwrap() error { return e.Cause }

// Detection helpers

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}

func IsInsufficientAvailable(err error) bool {
	var target *InsufficientAvailableError
	return errors.As(err, &target)
}

func IsInvariantViolation(err error) bool {
	var target *InvariantViolationError
	return errors.As(err, &target)
}

func IsBusy(err error) bool {
	var target *BusyError
	return errors.As(err, &target)
}

// Postgres error codes for conditions that are safe to retry.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// Classify maps low-level storage errors onto the error kinds the core
// exposes: record-not-found stays as passed-in notFound, lock timeouts and
// deadlocks become retryable Busy errors, anything else passes through.
func Classify(err error, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	// The gorm postgres driver sits on pgx, so server errors arrive as
	// *pgconn.PgError. lib/pq errors are handled too for database/sql
	// callers on the pq driver.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return &BusyError{Cause: err}
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return &BusyError{Cause: err}
		}
	}

	return err
}
