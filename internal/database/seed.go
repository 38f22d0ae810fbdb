// internal/database/seed.go
package database

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/agrihedge/agrihedge-backend/internal/config"
	"github.com/agrihedge/agrihedge-backend/internal/models"
)

// Approximate mandi base prices per kg used only to synthesize demo data.
var basePrices = map[models.CommodityType]float64{
	models.CommoditySoybean:   45.0,
	models.CommoditySunflower: 52.0,
	models.CommodityGroundnut: 60.0,
	models.CommodityMustard:   55.0,
	models.CommoditySesame:    70.0,
}

// SeedInitialData populates demo users, listings, price history and
// forecasts. It is idempotent: a database that already has users is left
// untouched.
func SeedInitialData(db *gorm.DB, cfg config.MarketConfig) error {
	if !cfg.SeedDemoData {
		return nil
	}

	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount > 0 {
		return nil
	}

	log.Println("Seeding initial data...")

	farmers, err := seedUsers(db)
	if err != nil {
		return err
	}

	if err := seedListings(db, farmers); err != nil {
		return err
	}

	if err := seedMarketPrices(db, cfg.SeedHistoryDays); err != nil {
		return err
	}

	if err := seedForecasts(db, cfg.SeedForecastDays); err != nil {
		return err
	}

	log.Println("Initial data seeding completed")
	return nil
}

func seedUsers(db *gorm.DB) ([]models.User, error) {
	type seedUser struct {
		email    string
		userType models.UserType
		name     string
		phone    string
		city     string
		state    string
		pincode  string
	}

	seeds := []seedUser{
		{"farmer1@test.com", models.UserTypeFarmer, "Rajesh Kumar", "+919876543210", "Indore", "Madhya Pradesh", "452001"},
		{"farmer2@test.com", models.UserTypeFarmer, "Suresh Patel", "+919876543211", "Bhopal", "Madhya Pradesh", "462001"},
		{"trader1@test.com", models.UserTypeTrader, "Arun Traders Pvt Ltd", "+919876543212", "Mumbai", "Maharashtra", "400001"},
		{"trader2@test.com", models.UserTypeTrader, "Vikram Trading Co", "+919876543213", "Delhi", "Delhi", "110001"},
	}

	var farmers []models.User
	for _, seed := range seeds {
		user := models.User{
			Email:    seed.email,
			UserType: seed.userType,
			Status:   models.UserStatusActive,
			Name:     seed.name,
			Phone:    seed.phone,
			Location: models.JSONB{
				"city":    seed.city,
				"state":   seed.state,
				"pincode": seed.pincode,
			},
		}
		if err := user.SetPassword("password123"); err != nil {
			return nil, fmt.Errorf("failed to hash seed password: %w", err)
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create seed user %s: %w", seed.email, err)
		}
		if user.UserType == models.UserTypeFarmer {
			farmers = append(farmers, user)
		}
	}

	return farmers, nil
}

func seedListings(db *gorm.DB, farmers []models.User) error {
	if len(farmers) < 2 {
		return nil
	}

	listings := []models.Listing{
		{FarmerID: farmers[0].ID, CommodityType: models.CommoditySoybean, TotalQty: 1000, AvailableQty: 1000, Unit: models.UnitKg, IsActive: true},
		{FarmerID: farmers[0].ID, CommodityType: models.CommodityMustard, TotalQty: 500, AvailableQty: 500, Unit: models.UnitKg, IsActive: true},
		{FarmerID: farmers[1].ID, CommodityType: models.CommodityGroundnut, TotalQty: 800, AvailableQty: 800, Unit: models.UnitKg, IsActive: true},
	}

	for i := range listings {
		if err := db.Create(&listings[i]).Error; err != nil {
			return fmt.Errorf("failed to create seed listing: %w", err)
		}
	}

	return nil
}

func seedMarketPrices(db *gorm.DB, historyDays int) error {
	for _, commodity := range models.CommodityTypes {
		base := basePrices[commodity]
		for i := historyDays; i > 0; i-- {
			date := time.Now().AddDate(0, 0, -i)
			price := base + randRange(-3, 3) + (rand.Float64()-0.5)*2
			row := models.MarketPrice{
				CommodityType: commodity,
				Price:         round2(price),
				Unit:          models.UnitKg,
				Date:          date.Truncate(24 * time.Hour),
				Source:        "Agmarknet",
			}
			if err := db.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create seed market price: %w", err)
			}
		}
	}

	return nil
}

func seedForecasts(db *gorm.DB, forecastDays int) error {
	now := time.Now()

	for _, commodity := range models.CommodityTypes {
		// Forecast walks forward from the most recent observed price.
		var latest models.MarketPrice
		current := basePrices[commodity]
		if err := db.Where("commodity_type = ?", commodity).
			Order("date DESC").First(&latest).Error; err == nil {
			current = latest.Price
		}

		for i := 1; i <= forecastDays; i++ {
			trend := float64(i) * 0.05
			predicted := current + trend + randRange(-1, 1)
			row := models.PriceForecast{
				CommodityType:   commodity,
				ForecastDate:    now.AddDate(0, 0, i).Truncate(24 * time.Hour),
				PredictedPrice:  round2(predicted),
				ConfidenceLower: round2(predicted - randRange(2, 4)),
				ConfidenceUpper: round2(predicted + randRange(2, 4)),
				ModelVersion:    "prophet_v1",
				Unit:            models.UnitKg,
				GeneratedAt:     now,
			}
			if err := db.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create seed forecast: %w", err)
			}
		}
	}

	return nil
}

func randRange(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
