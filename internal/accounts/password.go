package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
	pkgerrors "github.com/wrapntrack/wrapntrack-backend/pkg/errors"
	"github.com/wrapntrack/wrapntrack-backend/pkg/security"
)

// ForgotPassword issues a reset code. Only existing verified accounts may
// start a reset. Returns whether the email went out.
func (s *service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (bool, error) {
	account, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, pkgerrors.New(pkgerrors.CodeAccountNotFound, "account not found")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}
	if !account.IsVerified {
		return false, pkgerrors.New(pkgerrors.CodeNotVerified, "account is not verified")
	}

	code, expiry, err := s.issueCode()
	if err != nil {
		return false, err
	}
	if err := s.repo.SetResetCode(ctx, account.ID, code, expiry); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store reset code")
	}

	sent := s.deliverCode(ctx, account,
		"Reset your Wrap N' Track password",
		fmt.Sprintf("Hi %s, your password reset code is %s. It expires in %s.", account.FirstName, code, s.verificationCfg.CodeTTL),
	)
	return sent, nil
}

// ResetPassword consumes the reset code and replaces the password hash.
// Updating the hash clears the stored code, so each code is single use.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	account, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeAccountNotFound, "account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}
	if err := matchResetCode(account, req.Code); err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	if err := s.repo.UpdatePassword(ctx, account.ID, passwordHash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return nil
}

// matchResetCode checks the stored reset code and expiry against the
// submitted value.
func matchResetCode(account *models.Account, submitted string) error {
	if account.ResetCode == nil || account.ResetExpiry == nil {
		return pkgerrors.New(pkgerrors.CodeInvalidOrExpiredCode, "reset code is invalid or expired")
	}
	if time.Now().UTC().After(*account.ResetExpiry) {
		return pkgerrors.New(pkgerrors.CodeInvalidOrExpiredCode, "reset code is invalid or expired")
	}
	stored := strings.TrimSpace(*account.ResetCode)
	if subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(submitted))) != 1 {
		return pkgerrors.New(pkgerrors.CodeInvalidOrExpiredCode, "reset code is invalid or expired")
	}
	return nil
}
