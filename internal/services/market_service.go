// internal/services/market_service.go
package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/agrihedge/agrihedge-backend/internal/models"
)

// MarketData is what the rest of the platform is allowed to see of the
// market price store: the latest observed price per commodity, used only
// for read-only valuation display. The matching workflow never consults it.
type MarketData interface {
	LatestPrice(commodityType models.CommodityType) (*float64, error)
}

// MarketDataService serves price history, current prices and forecasts from
// the reference tables the seeder (or an ingestion job) fills.
type MarketDataService struct {
	db *gorm.DB
}

type CurrentPrice struct {
	CommodityType models.CommodityType `json:"commodity_type"`
	Price         float64              `json:"price"`
	Unit          models.Unit          `json:"unit"`
	Date          time.Time            `json:"date"`
	Source        string               `json:"source"`
}

type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

type PriceStatistics struct {
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Avg        float64 `json:"avg"`
	Volatility float64 `json:"volatility"`
}

type PriceHistory struct {
	CommodityType models.CommodityType `json:"commodity_type"`
	History       []PricePoint         `json:"history"`
	Statistics    PriceStatistics      `json:"statistics"`
}

type ForecastPoint struct {
	Date            time.Time `json:"date"`
	PredictedPrice  float64   `json:"predicted_price"`
	ConfidenceLower float64   `json:"confidence_lower"`
	ConfidenceUpper float64   `json:"confidence_upper"`
}

type CommodityForecast struct {
	CommodityType models.CommodityType `json:"commodity_type"`
	Predictions   []ForecastPoint      `json:"predictions"`
	ModelVersion  string               `json:"model_version"`
	GeneratedAt   time.Time            `json:"generated_at"`
}

func NewMarketDataService(db *gorm.DB) *MarketDataService {
	return &MarketDataService{db: db}
}

// LatestPrice returns the most recent observed price for a commodity, or
// nil when no data exists yet.
func (s *MarketDataService) LatestPrice(commodityType models.CommodityType) (*float64, error) {
	var row models.MarketPrice
	if err := s.db.Where("commodity_type = ?", commodityType).
		Order("date DESC").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch latest price: %w", err)
	}
	return &row.Price, nil
}

// GetCurrentPrices returns the freshest row per commodity, optionally
// narrowed to one type.
func (s *MarketDataService) GetCurrentPrices(commodityType *models.CommodityType) ([]CurrentPrice, error) {
	types := models.CommodityTypes
	if commodityType != nil {
		types = []models.CommodityType{*commodityType}
	}

	result := make([]CurrentPrice, 0, len(types))
	for _, t := range types {
		var row models.MarketPrice
		err := s.db.Where("commodity_type = ?", t).Order("date DESC").First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch current price: %w", err)
		}
		result = append(result, CurrentPrice{
			CommodityType: row.CommodityType,
			Price:         row.Price,
			Unit:          row.Unit,
			Date:          row.Date,
			Source:        row.Source,
		})
	}

	return result, nil
}

// GetPriceHistory returns the last N daily prices in chronological order
// together with min/max/avg and a crude volatility figure (max - min).
func (s *MarketDataService) GetPriceHistory(commodityType models.CommodityType, days int) (*PriceHistory, error) {
	if days <= 0 {
		days = 30
	}

	var rows []models.MarketPrice
	if err := s.db.Where("commodity_type = ?", commodityType).
		Order("date DESC").Limit(days).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch price history: %w", err)
	}

	// Reverse into chronological order
	history := make([]PricePoint, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		history = append(history, PricePoint{Date: rows[i].Date, Price: rows[i].Price})
	}

	stats := PriceStatistics{}
	if len(history) > 0 {
		stats.Min = history[0].Price
		stats.Max = history[0].Price
		sum := 0.0
		for _, p := range history {
			stats.Min = math.Min(stats.Min, p.Price)
			stats.Max = math.Max(stats.Max, p.Price)
			sum += p.Price
		}
		stats.Avg = sum / float64(len(history))
		stats.Volatility = math.Round((stats.Max-stats.Min)*100) / 100
	}

	return &PriceHistory{
		CommodityType: commodityType,
		History:       history,
		Statistics:    stats,
	}, nil
}

// GetForecasts returns up to N upcoming forecast points per commodity.
func (s *MarketDataService) GetForecasts(commodityType *models.CommodityType, days int) ([]CommodityForecast, error) {
	if days <= 0 {
		days = 30
	}

	types := models.CommodityTypes
	if commodityType != nil {
		types = []models.CommodityType{*commodityType}
	}

	result := make([]CommodityForecast, 0, len(types))
	for _, t := range types {
		var rows []models.PriceForecast
		if err := s.db.Where("commodity_type = ?", t).
			Order("forecast_date ASC").Limit(days).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch forecasts: %w", err)
		}
		if len(rows) == 0 {
			continue
		}

		predictions := make([]ForecastPoint, 0, len(rows))
		for _, row := range rows {
			predictions = append(predictions, ForecastPoint{
				Date:            row.ForecastDate,
				PredictedPrice:  row.PredictedPrice,
				ConfidenceLower: row.ConfidenceLower,
				ConfidenceUpper: row.ConfidenceUpper,
			})
		}

		result = append(result, CommodityForecast{
			CommodityType: t,
			Predictions:   predictions,
			ModelVersion:  rows[0].ModelVersion,
			GeneratedAt:   rows[0].GeneratedAt,
		})
	}

	return result, nil
}
