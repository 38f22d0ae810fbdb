// internal/services/contract_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrihedge/agrihedge-backend/internal/apperrors"
	"github.com/agrihedge/agrihedge-backend/internal/config"
	"github.com/agrihedge/agrihedge-backend/internal/models"
	"github.com/agrihedge/agrihedge-backend/internal/utils"
)

// ContractService drives the proposal/acceptance/fulfillment workflow. It
// is the only writer of contracts and the only component that moves listing
// counters, and it always mutates both inside one locked transaction.
//
// Reservation exists to keep a farmer from double-promising the same stock
// across several of their own open offers. Trader-initiated proposals hold
// nothing; availability is re-checked when the farmer accepts, and when
// several traders chase the same stock the first accept wins. That
// asymmetry is deliberate and is covered by the workflow tests.
type ContractService struct {
	db            *gorm.DB
	cfg           *config.Config
	notifications *NotificationService
}

type ProposeContractRequest struct {
	ListingID            uuid.UUID   `json:"listing_id" validate:"required"`
	FarmerID             *uuid.UUID  `json:"farmer_id,omitempty"` // required for trader proposals
	PricePerUnit         float64     `json:"price_per_unit" validate:"required,gt=0"`
	Qty                  float64     `json:"qty" validate:"required,gt=0"`
	Unit                 models.Unit `json:"unit" validate:"required,unit"`
	ExpectedDeliveryDate *time.Time  `json:"expected_delivery_date,omitempty"`
	Notes                string      `json:"notes,omitempty"`
}

type ContractFilter struct {
	utils.PaginationParams
	ListingID *uuid.UUID             `json:"listing_id,omitempty"`
	FarmerID  *uuid.UUID             `json:"farmer_id,omitempty"`
	TraderID  *uuid.UUID             `json:"trader_id,omitempty"`
	Status    *models.ContractStatus `json:"status,omitempty"`
}

func NewContractService(db *gorm.DB, cfg *config.Config, notifications *NotificationService) *ContractService {
	return &ContractService{
		db:            db,
		cfg:           cfg,
		notifications: notifications,
	}
}

// Propose creates a PENDING contract. Farmer proposals reserve the offered
// quantity against the listing; trader proposals create the contract only.
func (s *ContractService) Propose(actorID uuid.UUID, actorType models.UserType, req *ProposeContractRequest) (*models.Contract, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var contract *models.Contract
	err := withLockedTx(s.db, s.cfg.Database.LockTimeoutMillis, func(tx *gorm.DB) error {
		listing, err := lockListing(tx, req.ListingID)
		if err != nil {
			return err
		}

		switch actorType {
		case models.UserTypeFarmer:
			contract, err = s.proposeByFarmer(tx, actorID, listing, req)
		case models.UserTypeTrader:
			contract, err = s.proposeByTrader(tx, actorID, listing, req)
		default:
			err = apperrors.NewForbidden("only farmers and traders can propose contracts")
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return contract, nil
}

func (s *ContractService) proposeByFarmer(tx *gorm.DB, farmerID uuid.UUID, listing *models.Listing, req *ProposeContractRequest) (*models.Contract, error) {
	if listing.FarmerID != farmerID {
		return nil, apperrors.NewForbidden("this listing does not belong to you")
	}

	if err := listing.Reserve(req.Qty); err != nil {
		return nil, err
	}
	if err := saveListing(tx, listing); err != nil {
		return nil, err
	}

	contract := &models.Contract{
		FarmerID:             farmerID,
		TraderID:             nil,
		ListingID:            listing.ID,
		CommodityType:        listing.CommodityType,
		PricePerUnit:         req.PricePerUnit,
		Qty:                  req.Qty,
		Unit:                 req.Unit,
		TotalValue:           req.PricePerUnit * req.Qty,
		Status:               models.ContractStatusPending,
		Initiator:            models.InitiatorFarmer,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Notes:                req.Notes,
	}

	if err := tx.Create(contract).Error; err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	return contract, nil
}

func (s *ContractService) proposeByTrader(tx *gorm.DB, traderID uuid.UUID, listing *models.Listing, req *ProposeContractRequest) (*models.Contract, error) {
	if !listing.IsActive {
		return nil, apperrors.NewForbidden("this listing is no longer active")
	}
	if req.FarmerID == nil || *req.FarmerID != listing.FarmerID {
		return nil, apperrors.NewForbidden("listing does not belong to the specified farmer")
	}

	// Sanity check at proposal time. Nothing is reserved for a trader
	// proposal, so the binding quantity gate is at accept time.
	if req.Qty > listing.AvailableQty {
		return nil, apperrors.NewInsufficientAvailable(listing.ID, req.Qty, listing.AvailableQty, string(listing.Unit))
	}

	contract := &models.Contract{
		FarmerID:             listing.FarmerID,
		TraderID:             &traderID,
		ListingID:            listing.ID,
		CommodityType:        listing.CommodityType,
		PricePerUnit:         req.PricePerUnit,
		Qty:                  req.Qty,
		Unit:                 req.Unit,
		TotalValue:           req.PricePerUnit * req.Qty,
		Status:               models.ContractStatusPending,
		Initiator:            models.InitiatorTrader,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Notes:                req.Notes,
	}

	if err := tx.Create(contract).Error; err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	return contract, nil
}

// Accept moves a pending contract to ACTIVE and locks stock.
//
// For a farmer-initiated offer any trader may accept; the reservation made
// at proposal time converts into a commitment. For a trader-initiated
// proposal only the named farmer may accept, and because no reservation
// backs it the availability check here is decisive: if stock shrank since
// the proposal, this fails and the contract stays PENDING.
func (s *ContractService) Accept(contractID, actorID uuid.UUID, actorType models.UserType) (*models.Contract, error) {
	var contract *models.Contract
	err := withLockedTx(s.db, s.cfg.Database.LockTimeoutMillis, func(tx *gorm.DB) error {
		locked, err := lockContract(tx, contractID)
		if err != nil {
			return err
		}

		switch locked.Initiator {
		case models.InitiatorFarmer:
			if actorType != models.UserTypeTrader {
				return apperrors.NewForbidden("only traders can accept farmer offers")
			}
		case models.InitiatorTrader:
			if actorType != models.UserTypeFarmer || locked.FarmerID != actorID {
				return apperrors.NewForbidden("only the named farmer can accept this contract")
			}
		}

		// Status is checked before the listing is touched so a repeat
		// accept reports the contract state, not a ledger failure.
		initiator := locked.Initiator
		if err := locked.Accept(actorID, time.Now()); err != nil {
			return err
		}

		listing, err := lockListing(tx, locked.ListingID)
		if err != nil {
			return err
		}

		if initiator == models.InitiatorFarmer {
			err = listing.CommitReserved(locked.Qty)
		} else {
			err = listing.CommitAvailable(locked.Qty)
		}
		if err != nil {
			return err
		}

		if err := saveListing(tx, listing); err != nil {
			return err
		}
		if err := tx.Save(locked).Error; err != nil {
			return fmt.Errorf("failed to update contract: %w", err)
		}

		contract = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifications.NotifyContractAccepted(contract, actorID)
	return contract, nil
}

// Reject lets the counterparty decline a pending contract. A rejected
// farmer offer returns its reservation.
func (s *ContractService) Reject(contractID, actorID uuid.UUID, actorType models.UserType, reason string) (*models.Contract, error) {
	var contract *models.Contract
	err := withLockedTx(s.db, s.cfg.Database.LockTimeoutMillis, func(tx *gorm.DB) error {
		locked, err := lockContract(tx, contractID)
		if err != nil {
			return err
		}

		switch locked.Initiator {
		case models.InitiatorFarmer:
			if actorType != models.UserTypeTrader {
				return apperrors.NewForbidden("only traders can reject farmer offers")
			}
		case models.InitiatorTrader:
			if actorType != models.UserTypeFarmer || locked.FarmerID != actorID {
				return apperrors.NewForbidden("only the named farmer can reject this contract")
			}
		}

		if err := locked.Reject(actorID, reason, time.Now()); err != nil {
			return err
		}

		if locked.Initiator == models.InitiatorFarmer {
			listing, err := lockListing(tx, locked.ListingID)
			if err != nil {
				return err
			}
			if err := listing.ReleaseReservation(locked.Qty); err != nil {
				return err
			}
			if err := saveListing(tx, listing); err != nil {
				return err
			}
		}

		if err := tx.Save(locked).Error; err != nil {
			return fmt.Errorf("failed to update contract: %w", err)
		}

		contract = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifications.NotifyContractRejected(contract, actorID)
	return contract, nil
}

// Cancel lets the initiator withdraw their own pending contract. A
// cancelled farmer offer returns its reservation.
func (s *ContractService) Cancel(contractID, actorID uuid.UUID, actorType models.UserType) (*models.Contract, error) {
	var contract *models.Contract
	err := withLockedTx(s.db, s.cfg.Database.LockTimeoutMillis, func(tx *gorm.DB) error {
		locked, err := lockContract(tx, contractID)
		if err != nil {
			return err
		}

		switch locked.Initiator {
		case models.InitiatorFarmer:
			if actorType != models.UserTypeFarmer || locked.FarmerID != actorID {
				return apperrors.NewForbidden("only the contract creator can cancel it")
			}
		case models.InitiatorTrader:
			if actorType != models.UserTypeTrader || locked.TraderID == nil || *locked.TraderID != actorID {
				return apperrors.NewForbidden("only the contract creator can cancel it")
			}
		}

		if err := locked.Cancel(actorID, time.Now()); err != nil {
			return err
		}

		if locked.Initiator == models.InitiatorFarmer {
			listing, err := lockListing(tx, locked.ListingID)
			if err != nil {
				return err
			}
			if err := listing.ReleaseReservation(locked.Qty); err != nil {
				return err
			}
			if err := saveListing(tx, listing); err != nil {
				return err
			}
		}

		if err := tx.Save(locked).Error; err != nil {
			return fmt.Errorf("failed to update contract: %w", err)
		}

		contract = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifications.NotifyContractCancelled(contract, actorID)
	return contract, nil
}

// Complete records delivery on an active contract: the commitment is
// consumed and physical stock leaves the listing.
func (s *ContractService) Complete(contractID, actorID uuid.UUID) (*models.Contract, error) {
	var contract *models.Contract
	err := withLockedTx(s.db, s.cfg.Database.LockTimeoutMillis, func(tx *gorm.DB) error {
		locked, err := lockContract(tx, contractID)
		if err != nil {
			return err
		}

		if !locked.IsParty(actorID) {
			return apperrors.NewForbidden("you are not a party to this contract")
		}

		if err := locked.Complete(actorID, time.Now()); err != nil {
			return err
		}

		listing, err := lockListing(tx, locked.ListingID)
		if err != nil {
			return err
		}
		if err := listing.Fulfill(locked.Qty); err != nil {
			return err
		}
		if err := saveListing(tx, listing); err != nil {
			return err
		}

		if err := tx.Save(locked).Error; err != nil {
			return fmt.Errorf("failed to update contract: %w", err)
		}

		contract = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifications.NotifyContractCompleted(contract, actorID)
	return contract, nil
}

// GetContract returns a contract with its parties and listing, provided
// the caller is one of the parties (or the offer is still open to any
// trader).
func (s *ContractService) GetContract(contractID, callerID uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	if err := s.db.Preload("Farmer").Preload("Trader").Preload("Listing").
		First(&contract, "id = ?", contractID).Error; err != nil {
		return nil, apperrors.Classify(err, apperrors.NewNotFound("contract", contractID))
	}

	openOffer := contract.Initiator == models.InitiatorFarmer && contract.TraderID == nil
	if !openOffer && !contract.IsParty(callerID) {
		return nil, apperrors.NewForbidden("you are not a party to this contract")
	}

	return &contract, nil
}

// ListContracts is the general filtered listing: by listing, farmer,
// trader and/or status. Results page through created_at DESC.
func (s *ContractService) ListContracts(filter ContractFilter) ([]models.Contract, int64, error) {
	query := s.db.Model(&models.Contract{})

	if filter.ListingID != nil {
		query = query.Where("listing_id = ?", *filter.ListingID)
	}
	if filter.FarmerID != nil {
		query = query.Where("farmer_id = ?", *filter.FarmerID)
	}
	if filter.TraderID != nil {
		query = query.Where("trader_id = ?", *filter.TraderID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contracts: %w", err)
	}

	allowedSortFields := []string{"created_at", "total_value", "status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var contracts []models.Contract
	if err := query.Preload("Farmer").Preload("Trader").Find(&contracts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch contracts: %w", err)
	}

	return contracts, total, nil
}

// GetTraderPendingContracts returns what a trader can act on: open farmer
// offers not yet claimed by anyone, plus the trader's own pending
// proposals.
func (s *ContractService) GetTraderPendingContracts(traderID uuid.UUID) ([]models.Contract, error) {
	var contracts []models.Contract
	if err := s.db.Where("status = ?", models.ContractStatusPending).
		Where("(initiator = ? AND trader_id IS NULL) OR (initiator = ? AND trader_id = ?)",
			models.InitiatorFarmer, models.InitiatorTrader, traderID).
		Order("created_at DESC").
		Preload("Farmer").
		Find(&contracts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch pending contracts: %w", err)
	}
	return contracts, nil
}
