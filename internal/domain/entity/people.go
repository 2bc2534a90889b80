package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Staff is the employment profile of a user with the staff role.
type Staff struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Phone     string           `gorm:"size:20" json:"phone"`
	Position  string           `gorm:"size:50" json:"position"`
	HiredAt   time.Time        `gorm:"type:date" json:"hired_at"`
	Status    enum.StaffStatus `gorm:"default:0" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Staff) TableName() string {
	return "staff"
}

// Customer is a diner. Walk-in customers have no user account.
type Customer struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID        *uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`
	Name          string         `gorm:"size:100;not null" json:"name"`
	Phone         *string        `gorm:"size:20;index" json:"phone,omitempty"`
	Email         *string        `gorm:"size:255" json:"email,omitempty"`
	JoinedAt      time.Time      `gorm:"type:date" json:"joined_at"`
	TotalSpent    int64          `gorm:"not null;default:0;check:total_spent >= 0" json:"total_spent"`
	LoyaltyPoints int64          `gorm:"not null;default:0;check:loyalty_points >= 0" json:"loyalty_points"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Customer) TableName() string {
	return "customers"
}
