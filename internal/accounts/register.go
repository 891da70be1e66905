package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wrapntrack/wrapntrack-backend/pkg/db"
	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
	"github.com/wrapntrack/wrapntrack-backend/pkg/enums"
	pkgerrors "github.com/wrapntrack/wrapntrack-backend/pkg/errors"
	"github.com/wrapntrack/wrapntrack-backend/pkg/security"
)

// Register creates a new account in pending verification state. The duplicate
// checks and the insert run in one transaction; email delivery happens after
// commit so a provider outage never rolls back the account.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	role := enums.AccountRoleCustomer
	if req.Role != nil {
		parsed, err := enums.ParseAccountRole(*req.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		role = parsed
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	code, expiry, err := s.issueCode()
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Email:              email,
		Username:           username,
		PasswordHash:       passwordHash,
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		Phone:              req.Phone,
		Address:            req.Address,
		Role:               role,
		IsVerified:         false,
		VerificationCode:   &code,
		VerificationExpiry: &expiry,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeDuplicateEmail, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
		}

		if _, err := repo.FindByUsername(ctx, username); err == nil {
			return pkgerrors.New(pkgerrors.CodeDuplicateUsername, "username already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}

		if _, err := repo.Create(ctx, account); err != nil {
			// the unique indexes are the final arbiter when a
			// concurrent register raced past the existence checks
			switch {
			case db.IsUniqueViolation(err, "idx_accounts_email") || db.IsUniqueViolation(err, "accounts.email"):
				return pkgerrors.New(pkgerrors.CodeDuplicateEmail, "email already registered")
			case db.IsUniqueViolation(err, "idx_accounts_username") || db.IsUniqueViolation(err, "accounts.username"):
				return pkgerrors.New(pkgerrors.CodeDuplicateUsername, "username already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create account")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sent := s.deliverCode(ctx, account,
		"Verify your Wrap N' Track account",
		fmt.Sprintf("Hi %s, your verification code is %s. It expires in %s.", account.FirstName, code, s.verificationCfg.CodeTTL),
	)

	resp := &RegisterResponse{
		Account:   FromModel(account),
		EmailSent: sent,
	}
	if s.verificationCfg.IssueTokenOnRegister {
		token, err := s.mintToken(account, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		resp.Token = token
	}
	return resp, nil
}
