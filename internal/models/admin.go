package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a closed two-tier role set. Comparisons go through Level so
// that authorization never falls back to string equality.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Level returns the privilege rank of the role, 0 for unknown values.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 1
	case RoleSuperAdmin:
		return 2
	}
	return 0
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r.Level() > 0
}

// AtLeast reports whether the role meets the given minimum. Unknown
// roles never satisfy any minimum.
func (r Role) AtLeast(minimum Role) bool {
	return r.Valid() && r.Level() >= minimum.Level()
}

type AdminUser struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Role         Role      `json:"role" gorm:"type:varchar(50);default:'admin'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Sanitize clears the password hash before the record leaves the
// service layer.
func (u *AdminUser) Sanitize() {
	u.PasswordHash = ""
}
