// internal/handlers/listing.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrihedge/agrihedge-backend/internal/i18n"
	"github.com/agrihedge/agrihedge-backend/internal/models"
	"github.com/agrihedge/agrihedge-backend/internal/services"
	"github.com/agrihedge/agrihedge-backend/internal/utils"
)

type ListingHandler struct {
	listingService *services.ListingService
}

func NewListingHandler(listingService *services.ListingService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
	}
}

// POST /listings (farmer only)
func (h *ListingHandler) CreateListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	farmerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	listing, err := h.listingService.CreateListing(farmerID, &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingCreated),
		"listing": listing,
	})
}

// GET /listings/my (farmer only)
func (h *ListingHandler) GetMyListings(c *gin.Context) {
	farmerID, ok := currentUserID(c)
	if !ok {
		return
	}

	listings, err := h.listingService.GetFarmerListings(farmerID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, listings)
}

// GET /listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid listing ID", nil)
		return
	}

	listing, err := h.listingService.GetListing(listingID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, listing)
}

// GET /listings/available (trader search)
func (h *ListingHandler) SearchAvailableListings(c *gin.Context) {
	params := services.ListingSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if t := c.Query("type"); t != "" {
		ct := models.CommodityType(t)
		if !ct.IsValid() {
			utils.BadRequestResponse(c, "invalid commodity type", nil)
			return
		}
		params.CommodityType = &ct
	}
	if mq := c.Query("min_qty"); mq != "" {
		minQty, err := strconv.ParseFloat(mq, 64)
		if err != nil || minQty < 0 {
			utils.BadRequestResponse(c, "invalid min_qty", nil)
			return
		}
		params.MinQty = &minQty
	}
	if u := c.Query("unit"); u != "" {
		unit := models.Unit(u)
		if !unit.IsValid() {
			utils.BadRequestResponse(c, "invalid unit", nil)
			return
		}
		params.Unit = &unit
	}

	listings, total, err := h.listingService.SearchAvailableListings(params)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(listings, total, params.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// currentUserID pulls the authenticated user out of the context; it writes
// the error response itself so handlers can bail with a bare return.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		utils.BadRequestResponse(c, "invalid user ID", nil)
		return uuid.Nil, false
	}
	return uid, true
}
