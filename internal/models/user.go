// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt rejects inputs longer than 72 bytes
const maxPasswordBytes = 72

type User struct {
	BaseModel
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	UserType     UserType   `json:"user_type" gorm:"type:varchar(20);not null"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	Name         string     `json:"name" gorm:"size:255;not null"`
	Phone        string     `json:"phone" gorm:"size:20"`
	Location     JSONB      `json:"location" gorm:"type:jsonb"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Listings []Listing `json:"listings,omitempty" gorm:"foreignKey:FarmerID"`
}

func (u *User) SetPassword(password string) error {
	if len(password) > maxPasswordBytes {
		password = password[:maxPasswordBytes]
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	if len(password) > maxPasswordBytes {
		password = password[:maxPasswordBytes]
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// LocationLabel renders "City, State" for display, or "N/A" when the user
// never provided a location.
func (u *User) LocationLabel() string {
	if u.Location == nil {
		return "N/A"
	}
	city, _ := u.Location["city"].(string)
	state, _ := u.Location["state"].(string)
	if city == "" && state == "" {
		return "N/A"
	}
	if city == "" {
		return state
	}
	if state == "" {
		return city
	}
	return city + ", " + state
}
