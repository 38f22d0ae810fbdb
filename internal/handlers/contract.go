// internal/handlers/contract.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrihedge/agrihedge-backend/internal/i18n"
	"github.com/agrihedge/agrihedge-backend/internal/models"
	"github.com/agrihedge/agrihedge-backend/internal/services"
	"github.com/agrihedge/agrihedge-backend/internal/utils"
)

type ContractHandler struct {
	contractService *services.ContractService
}

func NewContractHandler(contractService *services.ContractService) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
	}
}

// POST /contracts
func (h *ContractHandler) ProposeContract(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	actorID, actorType, ok := currentActor(c)
	if !ok {
		return
	}

	var req services.ProposeContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	contract, err := h.contractService.Propose(actorID, actorType, &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyContractCreated),
		"contract": contract,
	})
}

// POST /contracts/:id/accept
func (h *ContractHandler) AcceptContract(c *gin.Context) {
	h.transition(c, i18n.KeyContractAccepted, func(contractID, actorID uuid.UUID, actorType models.UserType) (*models.Contract, error) {
		return h.contractService.Accept(contractID, actorID, actorType)
	})
}

// POST /contracts/:id/reject
func (h *ContractHandler) RejectContract(c *gin.Context) {
	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	// Body is optional; a bare POST rejects without a reason.
	_ = c.ShouldBindJSON(&req)

	h.transition(c, i18n.KeyContractRejected, func(contractID, actorID uuid.UUID, actorType models.UserType) (*models.Contract, error) {
		return h.contractService.Reject(contractID, actorID, actorType, req.Reason)
	})
}

// POST /contracts/:id/cancel
func (h *ContractHandler) CancelContract(c *gin.Context) {
	h.transition(c, i18n.KeyContractCancelled, func(contractID, actorID uuid.UUID, actorType models.UserType) (*models.Contract, error) {
		return h.contractService.Cancel(contractID, actorID, actorType)
	})
}

// POST /contracts/:id/complete
func (h *ContractHandler) CompleteContract(c *gin.Context) {
	h.transition(c, i18n.KeyContractCompleted, func(contractID, actorID uuid.UUID, _ models.UserType) (*models.Contract, error) {
		return h.contractService.Complete(contractID, actorID)
	})
}

func (h *ContractHandler) transition(c *gin.Context, messageKey string, fn func(contractID, actorID uuid.UUID, actorType models.UserType) (*models.Contract, error)) {
	lang := utils.GetLangFromContext(c)

	actorID, actorType, ok := currentActor(c)
	if !ok {
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid contract ID", nil)
		return
	}

	contract, err := fn(contractID, actorID, actorType)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, messageKey),
		"contract": contract,
	})
}

// GET /contracts/:id
func (h *ContractHandler) GetContract(c *gin.Context) {
	callerID, ok := currentUserID(c)
	if !ok {
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid contract ID", nil)
		return
	}

	contract, err := h.contractService.GetContract(contractID, callerID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, contract)
}

// GET /contracts — filtered to the caller's own side unless narrowed
// further by query params.
func (h *ContractHandler) ListContracts(c *gin.Context) {
	actorID, actorType, ok := currentActor(c)
	if !ok {
		return
	}

	filter := services.ContractFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	// Callers only see contracts where they are a party.
	switch actorType {
	case models.UserTypeFarmer:
		filter.FarmerID = &actorID
	case models.UserTypeTrader:
		filter.TraderID = &actorID
	}

	// Mounted both at /contracts (listing_id query param) and at
	// /listings/:id/contracts (path param).
	lid := c.Param("id")
	if lid == "" {
		lid = c.Query("listing_id")
	}
	if lid != "" {
		listingID, err := uuid.Parse(lid)
		if err != nil {
			utils.BadRequestResponse(c, "invalid listing_id", nil)
			return
		}
		filter.ListingID = &listingID
	}
	if s := c.Query("status"); s != "" {
		status := models.ContractStatus(s)
		if !status.IsValid() {
			utils.BadRequestResponse(c, "invalid status", nil)
			return
		}
		filter.Status = &status
	}

	contracts, total, err := h.contractService.ListContracts(filter)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(contracts, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// GET /contracts/pending (trader only) — open farmer offers plus the
// trader's own pending proposals.
func (h *ContractHandler) GetPendingContracts(c *gin.Context) {
	traderID, ok := currentUserID(c)
	if !ok {
		return
	}

	contracts, err := h.contractService.GetTraderPendingContracts(traderID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, contracts)
}

func currentActor(c *gin.Context) (uuid.UUID, models.UserType, bool) {
	actorID, ok := currentUserID(c)
	if !ok {
		return uuid.Nil, "", false
	}
	userType, exists := utils.GetUserTypeFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, "", false
	}
	return actorID, models.UserType(userType), true
}
