package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products into a tree via the optional ParentID.
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`
	ParentID  *uuid.UUID     `gorm:"type:uuid;index" json:"parent_id"`
	Parent    *Category      `gorm:"foreignKey:ParentID" json:"-"`
	State     LifecycleState `gorm:"type:varchar(20);not null;default:'active';index" json:"state"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
