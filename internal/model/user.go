package model

import (
	"time"

	"github.com/google/uuid"
)

// Role constants for user accounts
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User represents a registered account. The password column stores only the
// bcrypt digest; the plaintext never touches the database or logs.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"` // bcrypt digest only
	Role      string         `gorm:"type:varchar(20);not null" json:"role"` // buyer, seller, admin
	State     LifecycleState `gorm:"type:varchar(20);not null;default:'active';index" json:"state"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
