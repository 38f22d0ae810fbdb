// internal/handlers/market.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agrihedge/agrihedge-backend/internal/models"
	"github.com/agrihedge/agrihedge-backend/internal/services"
	"github.com/agrihedge/agrihedge-backend/internal/utils"
)

type MarketHandler struct {
	marketService *services.MarketDataService
}

func NewMarketHandler(marketService *services.MarketDataService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// GET /market/prices?type=Soybean
func (h *MarketHandler) GetCurrentPrices(c *gin.Context) {
	commodityType, ok := optionalCommodityType(c)
	if !ok {
		return
	}

	prices, err := h.marketService.GetCurrentPrices(commodityType)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, prices)
}

// GET /market/prices/:type/history?days=30
func (h *MarketHandler) GetPriceHistory(c *gin.Context) {
	commodityType := models.CommodityType(c.Param("type"))
	if !commodityType.IsValid() {
		utils.BadRequestResponse(c, "invalid commodity type", nil)
		return
	}

	days := 30
	if d := c.Query("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed < 1 || parsed > 365 {
			utils.BadRequestResponse(c, "days must be between 1 and 365", nil)
			return
		}
		days = parsed
	}

	history, err := h.marketService.GetPriceHistory(commodityType, days)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, history)
}

// GET /market/forecasts?type=Mustard&days=30
func (h *MarketHandler) GetForecasts(c *gin.Context) {
	commodityType, ok := optionalCommodityType(c)
	if !ok {
		return
	}

	days := 30
	if d := c.Query("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed < 1 || parsed > 90 {
			utils.BadRequestResponse(c, "days must be between 1 and 90", nil)
			return
		}
		days = parsed
	}

	forecasts, err := h.marketService.GetForecasts(commodityType, days)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, forecasts)
}

func optionalCommodityType(c *gin.Context) (*models.CommodityType, bool) {
	t := c.Query("type")
	if t == "" {
		return nil, true
	}
	ct := models.CommodityType(t)
	if !ct.IsValid() {
		utils.BadRequestResponse(c, "invalid commodity type", nil)
		return nil, false
	}
	return &ct, true
}
