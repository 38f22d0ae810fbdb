// internal/models/contract.go
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agrihedge/agrihedge-backend/internal/apperrors"
)

// Contract is a bilateral forward agreement between a farmer and a trader
// over one listing. TraderID is nil for a farmer-initiated offer until a
// trader accepts it. Contracts are never deleted; terminal rows are kept for
// audit and history.
//
// Status machine: PENDING -> {ACTIVE, REJECTED, CANCELLED}; ACTIVE ->
// COMPLETED. The transition methods check the source status and stamp the
// transition time plus acting party; party/role checks live in the service
// layer, which is the sole writer of contracts.
type Contract struct {
	BaseModel
	FarmerID             uuid.UUID      `json:"farmer_id" gorm:"type:uuid;not null;index"`
	TraderID             *uuid.UUID     `json:"trader_id" gorm:"type:uuid;index"`
	ListingID            uuid.UUID      `json:"listing_id" gorm:"type:uuid;not null;index"`
	CommodityType        CommodityType  `json:"commodity_type" gorm:"type:varchar(20);not null"`
	PricePerUnit         float64        `json:"price_per_unit" gorm:"type:decimal(12,2);not null"`
	Qty                  float64        `json:"qty" gorm:"type:decimal(12,2);not null"`
	Unit                 Unit           `json:"unit" gorm:"type:varchar(10);not null"`
	TotalValue           float64        `json:"total_value" gorm:"type:decimal(14,2);not null"`
	Status               ContractStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Initiator            Initiator      `json:"initiator" gorm:"type:varchar(10);not null"`
	AcceptedAt           *time.Time     `json:"accepted_at"`
	AcceptedBy           *uuid.UUID     `json:"accepted_by" gorm:"type:uuid"`
	RejectedAt           *time.Time     `json:"rejected_at"`
	RejectedBy           *uuid.UUID     `json:"rejected_by" gorm:"type:uuid"`
	RejectionReason      string         `json:"rejection_reason,omitempty" gorm:"type:text"`
	CancelledAt          *time.Time     `json:"cancelled_at"`
	CancelledBy          *uuid.UUID     `json:"cancelled_by" gorm:"type:uuid"`
	CompletedAt          *time.Time     `json:"completed_at"`
	CompletedBy          *uuid.UUID     `json:"completed_by" gorm:"type:uuid"`
	ExpectedDeliveryDate *time.Time     `json:"expected_delivery_date"`
	Notes                string         `json:"notes,omitempty" gorm:"type:text"`

	// Relationships
	Farmer  User    `json:"farmer,omitempty" gorm:"foreignKey:FarmerID"`
	Trader  *User   `json:"trader,omitempty" gorm:"foreignKey:TraderID"`
	Listing Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
}

// IsParty reports whether the user is the farmer or the trader on the
// contract.
func (c *Contract) IsParty(userID uuid.UUID) bool {
	if c.FarmerID == userID {
		return true
	}
	return c.TraderID != nil && *c.TraderID == userID
}

// Accept moves PENDING -> ACTIVE. For farmer-initiated offers the accepting
// trader becomes the counterparty here; the first trader to act wins.
func (c *Contract) Accept(actorID uuid.UUID, now time.Time) error {
	if c.Status != ContractStatusPending {
		return apperrors.NewInvalidState(c.ID, string(c.Status), "accept")
	}
	if c.Initiator == InitiatorFarmer {
		c.TraderID = &actorID
	}
	c.Status = ContractStatusActive
	c.AcceptedAt = &now
	c.AcceptedBy = &actorID
	return nil
}

// Reject moves PENDING -> REJECTED.
func (c *Contract) Reject(actorID uuid.UUID, reason string, now time.Time) error {
	if c.Status != ContractStatusPending {
		return apperrors.NewInvalidState(c.ID, string(c.Status), "reject")
	}
	c.Status = ContractStatusRejected
	c.RejectedAt = &now
	c.RejectedBy = &actorID
	c.RejectionReason = reason
	return nil
}

// Cancel moves PENDING -> CANCELLED. Only pending contracts can be
// cancelled; there is no cancellation path out of ACTIVE.
func (c *Contract) Cancel(actorID uuid.UUID, now time.Time) error {
	if c.Status != ContractStatusPending {
		return apperrors.NewInvalidState(c.ID, string(c.Status), "cancel")
	}
	c.Status = ContractStatusCancelled
	c.CancelledAt = &now
	c.CancelledBy = &actorID
	return nil
}

// Complete moves ACTIVE -> COMPLETED on delivery.
func (c *Contract) Complete(actorID uuid.UUID, now time.Time) error {
	if c.Status != ContractStatusActive {
		return apperrors.NewInvalidState(c.ID, string(c.Status), "complete")
	}
	c.Status = ContractStatusCompleted
	c.CompletedAt = &now
	c.CompletedBy = &actorID
	return nil
}
