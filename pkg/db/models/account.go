package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wrapntrack/wrapntrack-backend/pkg/enums"
)

// Account represents the canonical identity entity. Staff users and shop
// customers share one table, distinguished by Role.
type Account struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email              string            `gorm:"column:email;type:text;not null;uniqueIndex"`
	Username           string            `gorm:"column:username;type:text;not null;uniqueIndex"`
	PasswordHash       string            `gorm:"column:password_hash;not null"`
	FirstName          string            `gorm:"column:first_name;not null"`
	LastName           string            `gorm:"column:last_name;not null"`
	Phone              *string           `gorm:"column:phone"`
	Address            *string           `gorm:"column:address"`
	Role               enums.AccountRole `gorm:"column:role;type:text;not null;default:'customer'"`
	IsVerified         bool              `gorm:"column:is_verified;not null;default:false"`
	VerificationCode   *string           `gorm:"column:verification_code"`
	VerificationExpiry *time.Time        `gorm:"column:verification_expiry"`
	ResetCode          *string           `gorm:"column:reset_code"`
	ResetExpiry        *time.Time        `gorm:"column:reset_expiry"`
	LastLoginAt        *time.Time        `gorm:"column:last_login_at"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName joins the name parts for display and mail templates.
func (a Account) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// PendingVerification reports whether the account still holds an unconsumed
// verification code.
func (a Account) PendingVerification() bool {
	return !a.IsVerified && a.VerificationCode != nil
}
