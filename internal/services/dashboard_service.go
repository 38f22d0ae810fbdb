// internal/services/dashboard_service.go
package services

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrihedge/agrihedge-backend/internal/models"
)

// DashboardService builds the per-role summary views. Everything here is
// read-only aggregation over listings and contracts; valuations use the
// latest market price when one exists.
type DashboardService struct {
	db         *gorm.DB
	marketData MarketData
}

type InventorySummary struct {
	CommodityType models.CommodityType `json:"commodity_type"`
	TotalQty      float64              `json:"total_qty"`
	AvailableQty  float64              `json:"available_qty"`
	ReservedQty   float64              `json:"reserved_qty"`
	CommittedQty  float64              `json:"committed_qty"`
	Unit          models.Unit          `json:"unit"`
	MarketPrice   *float64             `json:"market_price,omitempty"`
	MarketValue   *float64             `json:"market_value,omitempty"`
}

type ContractSummary struct {
	PendingCount   int64   `json:"pending_count"`
	ActiveCount    int64   `json:"active_count"`
	CompletedCount int64   `json:"completed_count"`
	ActiveValue    float64 `json:"active_value"`
	CompletedValue float64 `json:"completed_value"`
}

type ActivityEntry struct {
	ContractID    uuid.UUID             `json:"contract_id"`
	CommodityType models.CommodityType  `json:"commodity_type"`
	Qty           float64               `json:"qty"`
	Unit          models.Unit           `json:"unit"`
	TotalValue    float64               `json:"total_value"`
	Status        models.ContractStatus `json:"status"`
	UpdatedAt     string                `json:"updated_at"`
}

type FarmerDashboard struct {
	TotalListings  int64              `json:"total_listings"`
	ActiveListings int64              `json:"active_listings"`
	Inventory      []InventorySummary `json:"inventory"`
	TotalValuation float64            `json:"total_valuation"`
	Contracts      ContractSummary    `json:"contracts"`
	RecentActivity []ActivityEntry    `json:"recent_activity"`
}

type CommodityExposure struct {
	CommodityType models.CommodityType `json:"commodity_type"`
	ContractCount int64                `json:"contract_count"`
	TotalQty      float64              `json:"total_qty"`
	TotalValue    float64              `json:"total_value"`
	AvgPrice      float64              `json:"avg_price"`
}

type TraderDashboard struct {
	Contracts      ContractSummary     `json:"contracts"`
	Exposure       []CommodityExposure `json:"exposure"`
	RecentActivity []ActivityEntry     `json:"recent_activity"`
}

func NewDashboardService(db *gorm.DB, marketData MarketData) *DashboardService {
	return &DashboardService{db: db, marketData: marketData}
}

// GetFarmerDashboard aggregates the farmer's listings, inventory position
// and contract portfolio into one view.
func (s *DashboardService) GetFarmerDashboard(farmerID uuid.UUID) (*FarmerDashboard, error) {
	dashboard := &FarmerDashboard{}

	if err := s.db.Model(&models.Listing{}).
		Where("farmer_id = ?", farmerID).
		Count(&dashboard.TotalListings).Error; err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}
	if err := s.db.Model(&models.Listing{}).
		Where("farmer_id = ? AND is_active = ?", farmerID, true).
		Count(&dashboard.ActiveListings).Error; err != nil {
		return nil, fmt.Errorf("failed to count active listings: %w", err)
	}

	inventory, totalValuation, err := s.farmerInventory(farmerID)
	if err != nil {
		return nil, err
	}
	dashboard.Inventory = inventory
	dashboard.TotalValuation = totalValuation

	contracts, err := s.contractSummary("farmer_id = ?", farmerID)
	if err != nil {
		return nil, err
	}
	dashboard.Contracts = *contracts

	activity, err := s.recentActivity("farmer_id = ?", farmerID)
	if err != nil {
		return nil, err
	}
	dashboard.RecentActivity = activity

	return dashboard, nil
}

// GetTraderDashboard aggregates the trader's contract portfolio and their
// per-commodity exposure on active and completed contracts.
func (s *DashboardService) GetTraderDashboard(traderID uuid.UUID) (*TraderDashboard, error) {
	dashboard := &TraderDashboard{}

	contracts, err := s.contractSummary("trader_id = ?", traderID)
	if err != nil {
		return nil, err
	}
	dashboard.Contracts = *contracts

	exposure, err := s.traderExposure(traderID)
	if err != nil {
		return nil, err
	}
	dashboard.Exposure = exposure

	activity, err := s.recentActivity("trader_id = ?", traderID)
	if err != nil {
		return nil, err
	}
	dashboard.RecentActivity = activity

	return dashboard, nil
}

// farmerInventory rolls the farmer's active listings up by commodity and
// prices the unsold (total) quantity at the latest market rate. Commodities
// with no price data carry no valuation.
func (s *DashboardService) farmerInventory(farmerID uuid.UUID) ([]InventorySummary, float64, error) {
	var rows []struct {
		CommodityType models.CommodityType
		Unit          models.Unit
		TotalQty      float64
		AvailableQty  float64
		ReservedQty   float64
		CommittedQty  float64
	}
	if err := s.db.Model(&models.Listing{}).
		Select("commodity_type, unit, SUM(total_qty) as total_qty, SUM(available_qty) as available_qty, SUM(reserved_qty) as reserved_qty, SUM(committed_qty) as committed_qty").
		Where("farmer_id = ? AND is_active = ?", farmerID, true).
		Group("commodity_type, unit").
		Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to aggregate inventory: %w", err)
	}

	inventory := make([]InventorySummary, 0, len(rows))
	var totalValuation float64
	for _, row := range rows {
		entry := InventorySummary{
			CommodityType: row.CommodityType,
			TotalQty:      row.TotalQty,
			AvailableQty:  row.AvailableQty,
			ReservedQty:   row.ReservedQty,
			CommittedQty:  row.CommittedQty,
			Unit:          row.Unit,
		}
		price, err := s.marketData.LatestPrice(row.CommodityType)
		if err != nil {
			return nil, 0, err
		}
		if price != nil {
			value := round2(*price * row.TotalQty)
			entry.MarketPrice = price
			entry.MarketValue = &value
			totalValuation += value
		}
		inventory = append(inventory, entry)
	}

	return inventory, round2(totalValuation), nil
}

func (s *DashboardService) contractSummary(cond string, id uuid.UUID) (*ContractSummary, error) {
	var rows []struct {
		Status models.ContractStatus
		Count  int64
		Value  float64
	}
	if err := s.db.Model(&models.Contract{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(total_value), 0) as value").
		Where(cond, id).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate contracts: %w", err)
	}

	summary := &ContractSummary{}
	for _, row := range rows {
		switch row.Status {
		case models.ContractStatusPending:
			summary.PendingCount = row.Count
		case models.ContractStatusActive:
			summary.ActiveCount = row.Count
			summary.ActiveValue = round2(row.Value)
		case models.ContractStatusCompleted:
			summary.CompletedCount = row.Count
			summary.CompletedValue = round2(row.Value)
		}
	}
	return summary, nil
}

func (s *DashboardService) traderExposure(traderID uuid.UUID) ([]CommodityExposure, error) {
	var rows []struct {
		CommodityType models.CommodityType
		ContractCount int64
		TotalQty      float64
		TotalValue    float64
	}
	if err := s.db.Model(&models.Contract{}).
		Select("commodity_type, COUNT(*) as contract_count, SUM(qty) as total_qty, SUM(total_value) as total_value").
		Where("trader_id = ? AND status IN ?", traderID,
			[]models.ContractStatus{models.ContractStatusActive, models.ContractStatusCompleted}).
		Group("commodity_type").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate exposure: %w", err)
	}

	exposure := make([]CommodityExposure, 0, len(rows))
	for _, row := range rows {
		entry := CommodityExposure{
			CommodityType: row.CommodityType,
			ContractCount: row.ContractCount,
			TotalQty:      row.TotalQty,
			TotalValue:    round2(row.TotalValue),
		}
		if row.TotalQty > 0 {
			entry.AvgPrice = round2(row.TotalValue / row.TotalQty)
		}
		exposure = append(exposure, entry)
	}
	return exposure, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *DashboardService) recentActivity(cond string, id uuid.UUID) ([]ActivityEntry, error) {
	var contracts []models.Contract
	if err := s.db.Where(cond, id).
		Order("updated_at DESC").
		Limit(5).
		Find(&contracts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent activity: %w", err)
	}

	activity := make([]ActivityEntry, 0, len(contracts))
	for _, c := range contracts {
		activity = append(activity, ActivityEntry{
			ContractID:    c.ID,
			CommodityType: c.CommodityType,
			Qty:           c.Qty,
			Unit:          c.Unit,
			TotalValue:    c.TotalValue,
			Status:        c.Status,
			UpdatedAt:     c.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return activity, nil
}
