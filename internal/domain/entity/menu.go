package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// DiningTable is a physical table in the restaurant.
type DiningTable struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Name      string           `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Seats     int              `gorm:"not null;default:4;check:seats >= 1" json:"seats"`
	Location  string           `gorm:"size:100" json:"location"`
	Status    enum.TableStatus `gorm:"default:0;index" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (t *DiningTable) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (DiningTable) TableName() string {
	return "dining_tables"
}

type Category struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Dishes []Dish `gorm:"foreignKey:CategoryID" json:"dishes,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Category) TableName() string {
	return "categories"
}

// Dish is a sellable menu item. UnitPrice is the current price; invoice
// lines capture their own copy when the dish is first added.
type Dish struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	UnitPrice   int64           `gorm:"not null;check:unit_price >= 0" json:"unit_price"`
	Description string          `gorm:"type:text" json:"description"`
	ImageURL    *string         `gorm:"size:500" json:"image_url,omitempty"`
	Status      enum.DishStatus `gorm:"default:0;index" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (d *Dish) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (Dish) TableName() string {
	return "dishes"
}

func (d *Dish) IsAvailable() bool {
	return d.Status == enum.DishStatusAvailable
}
