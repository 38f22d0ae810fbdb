// internal/handlers/dashboard.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrihedge/agrihedge-backend/internal/services"
	"github.com/agrihedge/agrihedge-backend/internal/utils"
)

type DashboardHandler struct {
	dashboardService    *services.DashboardService
	notificationService *services.NotificationService
}

func NewDashboardHandler(dashboardService *services.DashboardService, notificationService *services.NotificationService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService:    dashboardService,
		notificationService: notificationService,
	}
}

// GET /dashboard/farmer (farmer only)
func (h *DashboardHandler) GetFarmerDashboard(c *gin.Context) {
	farmerID, ok := currentUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.GetFarmerDashboard(farmerID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, dashboard)
}

// GET /dashboard/trader (trader only)
func (h *DashboardHandler) GetTraderDashboard(c *gin.Context) {
	traderID, ok := currentUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.GetTraderDashboard(traderID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, dashboard)
}

// GET /notifications?unread=true
func (h *DashboardHandler) GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.notificationService.GetUserNotifications(userID, unreadOnly)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, notifications)
}

// POST /notifications/:id/read
func (h *DashboardHandler) MarkNotificationRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid notification ID", nil)
		return
	}

	if err := h.notificationService.MarkNotificationRead(notificationID, userID); err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"marked_read": true})
}
