// internal/models/audit.go
package models

import (
	"github.com/google/uuid"
)

// AuditLog records every mutating API request for traceability.
type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:255;not null"`
	ResourceType string     `json:"resource_type" gorm:"size:100;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"size:500"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
}

// Notification is an in-app message for a contract counterparty, written by
// the notification service when a contract changes state.
type Notification struct {
	BaseModel
	UserID     uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Type       string     `json:"type" gorm:"size:50;not null"`
	Title      string     `json:"title" gorm:"size:255;not null"`
	Message    string     `json:"message" gorm:"type:text"`
	ContractID *uuid.UUID `json:"contract_id" gorm:"type:uuid;index"`
	IsRead     bool       `json:"is_read" gorm:"default:false;index"`
}
