// internal/services/listing_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrihedge/agrihedge-backend/internal/apperrors"
	"github.com/agrihedge/agrihedge-backend/internal/config"
	"github.com/agrihedge/agrihedge-backend/internal/models"
	"github.com/agrihedge/agrihedge-backend/internal/utils"
)

// ListingService owns the inventory side: listing creation, the farmer's
// own stock view, and the trader-facing search over available stock. The
// counter mutations themselves happen through ContractService transitions;
// this service only ever reads the counters.
type ListingService struct {
	db         *gorm.DB
	cfg        *config.Config
	marketData MarketData
}

type CreateListingRequest struct {
	CommodityType models.CommodityType `json:"type" validate:"required,commodity_type"`
	Qty           float64              `json:"qty" validate:"required,gt=0"`
	Unit          models.Unit          `json:"unit" validate:"required,unit"`
}

type ListingSearchParams struct {
	utils.PaginationParams
	CommodityType *models.CommodityType `json:"type,omitempty"`
	MinQty        *float64              `json:"min_qty,omitempty"`
	Unit          *models.Unit          `json:"unit,omitempty"`
}

// FarmerListing is a listing decorated with contract counts for the owner's
// stock view.
type FarmerListing struct {
	models.Listing
	ActiveContractsCount  int64 `json:"active_contracts_count"`
	PendingContractsCount int64 `json:"pending_contracts_count"`
}

// AvailableListing is the trader-facing search row: stock plus farmer info
// and the current market price for valuation display.
type AvailableListing struct {
	ID                    uuid.UUID            `json:"id"`
	Farmer                ListingFarmerInfo    `json:"farmer"`
	CommodityType         models.CommodityType `json:"type"`
	AvailableQty          float64              `json:"available_qty"`
	Unit                  models.Unit          `json:"unit"`
	PendingContractsCount int64                `json:"pending_contracts_count"`
	CurrentMarketPrice    *float64             `json:"current_market_price"`
}

type ListingFarmerInfo struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Location string    `json:"location"`
}

func NewListingService(db *gorm.DB, cfg *config.Config, marketData MarketData) *ListingService {
	return &ListingService{
		db:         db,
		cfg:        cfg,
		marketData: marketData,
	}
}

// CreateListing registers new physical stock. All of it starts available;
// nothing is reserved or committed until contracts move it.
func (s *ListingService) CreateListing(farmerID uuid.UUID, req *CreateListingRequest) (*models.Listing, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	listing := &models.Listing{
		FarmerID:      farmerID,
		CommodityType: req.CommodityType,
		TotalQty:      req.Qty,
		AvailableQty:  req.Qty,
		ReservedQty:   0,
		CommittedQty:  0,
		Unit:          req.Unit,
		IsActive:      true,
	}

	if err := s.db.Create(listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return listing, nil
}

func (s *ListingService) GetListing(id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := s.db.First(&listing, "id = ?", id).Error; err != nil {
		return nil, apperrors.Classify(err, apperrors.NewNotFound("listing", id))
	}
	return &listing, nil
}

// GetFarmerListings returns a farmer's stock with active/pending contract
// counts per listing.
func (s *ListingService) GetFarmerListings(farmerID uuid.UUID) ([]FarmerListing, error) {
	var listings []models.Listing
	if err := s.db.Where("farmer_id = ?", farmerID).
		Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch farmer listings: %w", err)
	}

	result := make([]FarmerListing, 0, len(listings))
	for _, listing := range listings {
		row := FarmerListing{Listing: listing}

		if err := s.db.Model(&models.Contract{}).
			Where("listing_id = ? AND status = ?", listing.ID, models.ContractStatusActive).
			Count(&row.ActiveContractsCount).Error; err != nil {
			return nil, fmt.Errorf("failed to count active contracts: %w", err)
		}
		if err := s.db.Model(&models.Contract{}).
			Where("listing_id = ? AND status = ?", listing.ID, models.ContractStatusPending).
			Count(&row.PendingContractsCount).Error; err != nil {
			return nil, fmt.Errorf("failed to count pending contracts: %w", err)
		}

		result = append(result, row)
	}

	return result, nil
}

// SearchAvailableListings is the trader's view of contractable stock, with
// optional commodity/minimum-quantity/unit filters. Market prices are
// looked up once per commodity, never per row.
func (s *ListingService) SearchAvailableListings(params ListingSearchParams) ([]AvailableListing, int64, error) {
	query := s.db.Model(&models.Listing{}).Where("is_active = ?", true)

	if params.CommodityType != nil {
		query = query.Where("commodity_type = ?", *params.CommodityType)
	}
	if params.MinQty != nil {
		query = query.Where("available_qty >= ?", *params.MinQty)
	}
	if params.Unit != nil {
		query = query.Where("unit = ?", *params.Unit)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	allowedSortFields := []string{"created_at", "available_qty", "commodity_type"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var listings []models.Listing
	if err := query.Preload("Farmer").Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}

	priceCache := make(map[models.CommodityType]*float64)

	result := make([]AvailableListing, 0, len(listings))
	for _, listing := range listings {
		price, ok := priceCache[listing.CommodityType]
		if !ok {
			fetched, err := s.marketData.LatestPrice(listing.CommodityType)
			if err != nil {
				return nil, 0, fmt.Errorf("failed to fetch market price: %w", err)
			}
			price = fetched
			priceCache[listing.CommodityType] = price
		}

		var pendingCount int64
		if err := s.db.Model(&models.Contract{}).
			Where("listing_id = ? AND status = ?", listing.ID, models.ContractStatusPending).
			Count(&pendingCount).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to count pending contracts: %w", err)
		}

		result = append(result, AvailableListing{
			ID: listing.ID,
			Farmer: ListingFarmerInfo{
				ID:       listing.Farmer.ID,
				Name:     listing.Farmer.Name,
				Location: listing.Farmer.LocationLabel(),
			},
			CommodityType:         listing.CommodityType,
			AvailableQty:          listing.AvailableQty,
			Unit:                  listing.Unit,
			PendingContractsCount: pendingCount,
			CurrentMarketPrice:    price,
		})
	}

	return result, total, nil
}
