// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeFarmer UserType = "farmer"
	UserTypeTrader UserType = "trader"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type CommodityType string

const (
	CommoditySoybean   CommodityType = "Soybean"
	CommoditySunflower CommodityType = "Sunflower"
	CommodityGroundnut CommodityType = "Groundnut"
	CommodityMustard   CommodityType = "Mustard"
	CommoditySesame    CommodityType = "Sesame"
)

// CommodityTypes lists every tradeable commodity in a stable order.
var CommodityTypes = []CommodityType{
	CommoditySoybean,
	CommoditySunflower,
	CommodityGroundnut,
	CommodityMustard,
	CommoditySesame,
}

func (c CommodityType) IsValid() bool {
	for _, known := range CommodityTypes {
		if c == known {
			return true
		}
	}
	return false
}

type Unit string

const (
	UnitKg    Unit = "kg"
	UnitTonne Unit = "tonne"
)

func (u Unit) IsValid() bool {
	return u == UnitKg || u == UnitTonne
}

type ContractStatus string

const (
	ContractStatusPending   ContractStatus = "PENDING"
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusRejected  ContractStatus = "REJECTED"
	ContractStatusCancelled ContractStatus = "CANCELLED"
	ContractStatusCompleted ContractStatus = "COMPLETED"
)

func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusPending, ContractStatusActive, ContractStatusRejected,
		ContractStatusCancelled, ContractStatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave the status.
func (s ContractStatus) IsTerminal() bool {
	switch s {
	case ContractStatusRejected, ContractStatusCancelled, ContractStatusCompleted:
		return true
	}
	return false
}

// Initiator identifies which party created a contract proposal. It is fixed
// at creation and decides which listing counters move on each transition.
type Initiator string

const (
	InitiatorFarmer Initiator = "farmer"
	InitiatorTrader Initiator = "trader"
)
