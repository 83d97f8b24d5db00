package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is a buyer's grade of a product. UserID and ProductID are immutable
// after creation; deletion flips State to inactive and triggers a rating
// recompute on the product within the same transaction.
type Review struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User          `gorm:"foreignKey:UserID" json:"-"`
	ProductID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *Product       `gorm:"foreignKey:ProductID" json:"-"`
	Comment     string         `gorm:"type:varchar(1000)" json:"comment"`
	CommentDate time.Time      `gorm:"autoCreateTime" json:"comment_date"`
	Grade       int            `gorm:"type:int;not null" json:"grade"` // 1-5
	State       LifecycleState `gorm:"type:varchar(20);not null;default:'active';index" json:"state"`
}
