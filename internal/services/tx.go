// internal/services/tx.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agrihedge/agrihedge-backend/internal/apperrors"
	"github.com/agrihedge/agrihedge-backend/internal/models"
)

// Every workflow mutation runs through withLockedTx: one transaction, row
// locks on the entities it touches, and a lock_timeout so a stuck waiter
// fails fast as a retryable busy error instead of queueing forever. A
// failed transition rolls back completely; no partial update is ever
// visible.
func withLockedTx(db *gorm.DB, lockTimeoutMillis int, fn func(tx *gorm.DB) error) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if lockTimeoutMillis > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeoutMillis)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to set lock timeout: %w", err)
			}
		}
		return fn(tx)
	})
	return apperrors.Classify(err, err)
}

// lockListing fetches a listing under FOR UPDATE. Concurrent transitions on
// the same listing serialize here; distinct listings proceed in parallel.
func lockListing(tx *gorm.DB, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&listing, "id = ?", id).Error; err != nil {
		return nil, apperrors.Classify(err, apperrors.NewNotFound("listing", id))
	}
	return &listing, nil
}

// lockContract fetches a contract under FOR UPDATE. Lock order is always
// contract first, then listing, so two transitions can never deadlock on
// each other.
func lockContract(tx *gorm.DB, id uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&contract, "id = ?", id).Error; err != nil {
		return nil, apperrors.Classify(err, apperrors.NewNotFound("contract", id))
	}
	return &contract, nil
}

// saveListing persists mutated counters after a final invariant check.
func saveListing(tx *gorm.DB, listing *models.Listing) error {
	if err := listing.CheckInvariants(); err != nil {
		return err
	}
	if err := tx.Model(listing).Select(
		"total_qty", "available_qty", "reserved_qty", "committed_qty", "updated_at",
	).Updates(map[string]interface{}{
		"total_qty":     listing.TotalQty,
		"available_qty": listing.AvailableQty,
		"reserved_qty":  listing.ReservedQty,
		"committed_qty": listing.CommittedQty,
	}).Error; err != nil {
		return fmt.Errorf("failed to update listing counters: %w", err)
	}
	return nil
}
