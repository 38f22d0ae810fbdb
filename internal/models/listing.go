// internal/models/listing.go
package models

import (
	"github.com/google/uuid"

	"github.com/agrihedge/agrihedge-backend/internal/apperrors"
)

// Listing is a farmer's tracked stock of one commodity type available for
// contracting. Four counters describe where every unit of stock stands:
//
//	TotalQty     physical stock on hand, reduced only on delivery
//	AvailableQty stock not locked by an accepted contract
//	ReservedQty  stock provisionally held by pending farmer-initiated offers
//	CommittedQty stock locked by active contracts, not yet delivered
//
// The mutation methods below are the only way counters move. They enforce
// the ledger invariants (all counters >= 0, TotalQty >= CommittedQty) and
// must run inside a transaction that holds the listing row lock.
type Listing struct {
	BaseModel
	FarmerID      uuid.UUID     `json:"farmer_id" gorm:"type:uuid;not null;index"`
	CommodityType CommodityType `json:"type" gorm:"type:varchar(20);not null;index"`
	TotalQty      float64       `json:"total_qty" gorm:"type:decimal(12,2);not null"`
	AvailableQty  float64       `json:"available_qty" gorm:"type:decimal(12,2);not null"`
	ReservedQty   float64       `json:"reserved_qty" gorm:"type:decimal(12,2);not null;default:0"`
	CommittedQty  float64       `json:"committed_qty" gorm:"type:decimal(12,2);not null;default:0"`
	Unit          Unit          `json:"unit" gorm:"type:varchar(10);not null"`
	IsActive      bool          `json:"is_active" gorm:"default:true;index"`

	// Relationships
	Farmer    User       `json:"farmer,omitempty" gorm:"foreignKey:FarmerID"`
	Contracts []Contract `json:"contracts,omitempty" gorm:"foreignKey:ListingID"`
}

// UncontractedQty is the stock a farmer may still promise in a new offer:
// available stock minus what pending farmer-initiated offers already hold.
func (l *Listing) UncontractedQty() float64 {
	return l.AvailableQty - l.ReservedQty
}

// Reserve provisionally holds qty for a pending farmer-initiated offer.
func (l *Listing) Reserve(qty float64) error {
	if free := l.UncontractedQty(); qty > free {
		return apperrors.NewInsufficientAvailable(l.ID, qty, free, string(l.Unit))
	}
	l.ReservedQty += qty
	return nil
}

// ReleaseReservation returns a provisional hold when the offer is rejected
// or cancelled. Going negative means a caller released more than it
// reserved, which is a bug, never clamped.
func (l *Listing) ReleaseReservation(qty float64) error {
	if qty > l.ReservedQty {
		return apperrors.NewInvariantViolation(l.ID, "reserved_qty",
			"release would drive reservation below zero")
	}
	l.ReservedQty -= qty
	return nil
}

// CommitReserved converts an existing reservation into a commitment when a
// trader accepts a farmer-initiated offer. The reservation release and the
// availability decrement happen in one step.
func (l *Listing) CommitReserved(qty float64) error {
	if qty > l.ReservedQty {
		return apperrors.NewInvariantViolation(l.ID, "reserved_qty",
			"commit exceeds outstanding reservation")
	}
	if qty > l.AvailableQty {
		return apperrors.NewInsufficientAvailable(l.ID, qty, l.AvailableQty, string(l.Unit))
	}
	l.ReservedQty -= qty
	l.AvailableQty -= qty
	l.CommittedQty += qty
	return nil
}

// CommitAvailable locks unreserved stock directly when the farmer accepts a
// trader-initiated proposal. No reservation backs these proposals, so the
// availability check here is the only quantity gate.
func (l *Listing) CommitAvailable(qty float64) error {
	if qty > l.AvailableQty {
		return apperrors.NewInsufficientAvailable(l.ID, qty, l.AvailableQty, string(l.Unit))
	}
	l.AvailableQty -= qty
	l.CommittedQty += qty
	return nil
}

// Fulfill records delivery against an active contract: the commitment is
// consumed and the physical stock leaves the listing.
func (l *Listing) Fulfill(qty float64) error {
	if qty > l.CommittedQty {
		return apperrors.NewInvariantViolation(l.ID, "committed_qty",
			"fulfillment exceeds committed stock")
	}
	l.CommittedQty -= qty
	l.TotalQty -= qty
	return nil
}

// CheckInvariants verifies the ledger equations after a mutation. Callers
// run it before persisting so a bug can never reach the database.
func (l *Listing) CheckInvariants() error {
	if l.TotalQty < 0 {
		return apperrors.NewInvariantViolation(l.ID, "total_qty", "total stock below zero")
	}
	if l.AvailableQty < 0 {
		return apperrors.NewInvariantViolation(l.ID, "available_qty", "available stock below zero")
	}
	if l.ReservedQty < 0 {
		return apperrors.NewInvariantViolation(l.ID, "reserved_qty", "reserved stock below zero")
	}
	if l.CommittedQty < 0 {
		return apperrors.NewInvariantViolation(l.ID, "committed_qty", "committed stock below zero")
	}
	if l.TotalQty < l.CommittedQty {
		return apperrors.NewInvariantViolation(l.ID, "total_qty", "committed stock exceeds total stock")
	}
	return nil
}
