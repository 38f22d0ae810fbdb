// internal/services/notification_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/agrihedge/agrihedge-backend/internal/models"
)

// NotificationService writes in-app notifications for the counterparty of
// a contract transition. Delivery is best-effort: a failed insert is
// logged and never fails the transition that triggered it.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) NotifyContractAccepted(contract *models.Contract, actorID uuid.UUID) {
	s.notifyCounterparty(contract, actorID, "contract_accepted",
		"Contract accepted",
		fmt.Sprintf("Your %s contract for %.2f %s was accepted.",
			contract.CommodityType, contract.Qty, contract.Unit))
}

func (s *NotificationService) NotifyContractRejected(contract *models.Contract, actorID uuid.UUID) {
	msg := fmt.Sprintf("Your %s contract for %.2f %s was rejected.",
		contract.CommodityType, contract.Qty, contract.Unit)
	if contract.RejectionReason != "" {
		msg = fmt.Sprintf("%s Reason: %s", msg, contract.RejectionReason)
	}
	s.notifyCounterparty(contract, actorID, "contract_rejected", "Contract rejected", msg)
}

func (s *NotificationService) NotifyContractCancelled(contract *models.Contract, actorID uuid.UUID) {
	s.notifyCounterparty(contract, actorID, "contract_cancelled",
		"Contract cancelled",
		fmt.Sprintf("The %s contract for %.2f %s was cancelled by the other party.",
			contract.CommodityType, contract.Qty, contract.Unit))
}

func (s *NotificationService) NotifyContractCompleted(contract *models.Contract, actorID uuid.UUID) {
	s.notifyCounterparty(contract, actorID, "contract_completed",
		"Contract completed",
		fmt.Sprintf("The %s contract for %.2f %s was marked as delivered.",
			contract.CommodityType, contract.Qty, contract.Unit))
}

// notifyCounterparty resolves the party who did NOT act and writes them a
// notification row. A cancelled open offer has no counterparty yet; that
// case is a no-op.
func (s *NotificationService) notifyCounterparty(contract *models.Contract, actorID uuid.UUID, notifType, title, message string) {
	var recipient *uuid.UUID
	if contract.FarmerID != actorID {
		recipient = &contract.FarmerID
	} else if contract.TraderID != nil && *contract.TraderID != actorID {
		recipient = contract.TraderID
	}
	if recipient == nil {
		return
	}

	notification := &models.Notification{
		UserID:     *recipient,
		Type:       notifType,
		Title:      title,
		Message:    message,
		ContractID: &contract.ID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"contract_id": contract.ID,
			"user_id":     *recipient,
			"type":        notifType,
		}).Error("Failed to create notification")
		return
	}

	logrus.WithFields(logrus.Fields{
		"contract_id": contract.ID,
		"user_id":     *recipient,
		"type":        notifType,
	}).Info("Notification created")
}

// GetUserNotifications returns a user's notifications, newest first.
func (s *NotificationService) GetUserNotifications(userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	query := s.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(50).Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead marks one of the user's notifications as read.
func (s *NotificationService) MarkNotificationRead(notificationID, userID uuid.UUID) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	return nil
}
