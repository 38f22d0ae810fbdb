// internal/models/market.go
package models

import "time"

// MarketPrice is one observed mandi price for a commodity on a date.
// Rows are reference data: written by the seeder or an ingestion job,
// read-only everywhere else.
type MarketPrice struct {
	BaseModel
	CommodityType CommodityType `json:"commodity_type" gorm:"type:varchar(20);not null;index:idx_market_prices_type_date,priority:1"`
	Price         float64       `json:"price" gorm:"type:decimal(12,2);not null"`
	Unit          Unit          `json:"unit" gorm:"type:varchar(10);not null"`
	Date          time.Time     `json:"date" gorm:"type:date;not null;index:idx_market_prices_type_date,priority:2,sort:desc"`
	Source        string        `json:"source" gorm:"size:100"`
}

// PriceForecast is one model-generated price prediction with its confidence
// band.
type PriceForecast struct {
	BaseModel
	CommodityType   CommodityType `json:"commodity_type" gorm:"type:varchar(20);not null;index:idx_forecasts_type_date,priority:1"`
	ForecastDate    time.Time     `json:"forecast_date" gorm:"type:date;not null;index:idx_forecasts_type_date,priority:2"`
	PredictedPrice  float64       `json:"predicted_price" gorm:"type:decimal(12,2);not null"`
	ConfidenceLower float64       `json:"confidence_lower" gorm:"type:decimal(12,2)"`
	ConfidenceUpper float64       `json:"confidence_upper" gorm:"type:decimal(12,2)"`
	ModelVersion    string        `json:"model_version" gorm:"size:50"`
	Unit            Unit          `json:"unit" gorm:"type:varchar(10);not null"`
	GeneratedAt     time.Time     `json:"generated_at"`
}
