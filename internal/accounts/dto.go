package accounts

import (
	"time"

	"github.com/google/uuid"

	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
	"github.com/wrapntrack/wrapntrack-backend/pkg/enums"
)

// AccountDTO is the public shape of an account. The password hash and
// verification code never leave the service layer.
type AccountDTO struct {
	ID         uuid.UUID         `json:"id"`
	Email      string            `json:"email"`
	Username   string            `json:"username"`
	FirstName  string            `json:"first_name"`
	LastName   string            `json:"last_name"`
	Phone      *string           `json:"phone,omitempty"`
	Address    *string           `json:"address,omitempty"`
	Role       enums.AccountRole `json:"role"`
	IsVerified bool              `json:"is_verified"`
	CreatedAt  time.Time         `json:"created_at"`
}

// FromModel maps the persisted account onto its public DTO.
func FromModel(account *models.Account) AccountDTO {
	if account == nil {
		return AccountDTO{}
	}
	return AccountDTO{
		ID:         account.ID,
		Email:      account.Email,
		Username:   account.Username,
		FirstName:  account.FirstName,
		LastName:   account.LastName,
		Phone:      account.Phone,
		Address:    account.Address,
		Role:       account.Role,
		IsVerified: account.IsVerified,
		CreatedAt:  account.CreatedAt,
	}
}

// RegisterRequest contains the payload required to create an account.
type RegisterRequest struct {
	Username  string  `json:"username" validate:"required,min=3"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=user customer"`
}

// RegisterResponse returns the created account. EmailSent reports whether the
// verification code was delivered; delivery failure does not fail
// registration.
type RegisterResponse struct {
	Account   AccountDTO `json:"account"`
	Token     string     `json:"token,omitempty"`
	EmailSent bool       `json:"email_sent"`
}

// VerifyRequest carries a submitted verification code.
type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// ResendRequest asks for a fresh verification code.
type ResendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginRequest accepts an email or a username as the identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse carries the session token and the authenticated account.
type LoginResponse struct {
	Token   string     `json:"token"`
	Account AccountDTO `json:"account"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest consumes a reset code and replaces the password.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ChangeEmailRequest moves a verified account to a new address. The account
// drops back to pending verification until the new code is confirmed.
type ChangeEmailRequest struct {
	NewEmail string `json:"new_email" validate:"required,email"`
}
