package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item offered by a seller. Rating is derived from the
// active reviews of the product and is never set directly by clients.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Description string          `gorm:"type:varchar(500)" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	ImageURL    string          `gorm:"type:varchar(200)" json:"image_url"`
	Stock       int             `gorm:"type:int;not null;default:0" json:"stock"`
	Rating      float64         `gorm:"type:float;not null;default:0" json:"rating"` // 0.0-5.0, mean of active review grades
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"-"`
	SellerID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"seller_id"`
	Seller      *User           `gorm:"foreignKey:SellerID" json:"-"`
	State       LifecycleState  `gorm:"type:varchar(20);not null;default:'active';index" json:"state"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
