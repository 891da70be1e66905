package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
	pkgerrors "github.com/wrapntrack/wrapntrack-backend/pkg/errors"
)

// VerifyCode consumes a pending verification code. Verifying an already
// verified account is a no-op success.
func (s *service) VerifyCode(ctx context.Context, req VerifyRequest) error {
	account, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeAccountNotFound, "account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}

	if account.IsVerified {
		return nil
	}
	if err := matchCode(account, req.Code); err != nil {
		return err
	}

	if err := s.repo.MarkVerified(ctx, account.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark account verified")
	}
	return nil
}

// ResendCode replaces any pending code with a fresh one and re-sends it.
// Returns whether the email went out.
func (s *service) ResendCode(ctx context.Context, req ResendRequest) (bool, error) {
	account, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, pkgerrors.New(pkgerrors.CodeNoPendingVerification, "no pending verification for this account")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}
	if account.IsVerified {
		return false, pkgerrors.New(pkgerrors.CodeNoPendingVerification, "no pending verification for this account")
	}

	code, expiry, err := s.issueCode()
	if err != nil {
		return false, err
	}
	if err := s.repo.SetVerificationCode(ctx, account.ID, code, expiry); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store verification code")
	}

	sent := s.deliverCode(ctx, account,
		"Your new Wrap N' Track verification code",
		fmt.Sprintf("Hi %s, your new verification code is %s. It expires in %s.", account.FirstName, code, s.verificationCfg.CodeTTL),
	)
	return sent, nil
}

// ChangeEmail moves the account to a new address and drops it back to pending
// verification until the new code is confirmed.
func (s *service) ChangeEmail(ctx context.Context, accountID uuid.UUID, req ChangeEmailRequest) (bool, error) {
	newEmail := strings.ToLower(strings.TrimSpace(req.NewEmail))
	if newEmail == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "new email is required")
	}

	var account *models.Account
	var code string

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeAccountNotFound, "account not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
		}

		if other, err := repo.FindByEmail(ctx, newEmail); err == nil && other.ID != found.ID {
			return pkgerrors.New(pkgerrors.CodeDuplicateEmail, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
		}

		freshCode, expiry, err := s.issueCode()
		if err != nil {
			return err
		}
		if err := repo.UpdateEmail(ctx, found.ID, newEmail, freshCode, expiry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update email")
		}

		found.Email = newEmail
		found.IsVerified = false
		account = found
		code = freshCode
		return nil
	})
	if err != nil {
		return false, err
	}

	sent := s.deliverCode(ctx, account,
		"Confirm your new Wrap N' Track email",
		fmt.Sprintf("Hi %s, confirm this address with code %s. It expires in %s.", account.FirstName, code, s.verificationCfg.CodeTTL),
	)
	return sent, nil
}

// matchCode checks the stored code and expiry against the submitted value.
func matchCode(account *models.Account, submitted string) error {
	if account.VerificationCode == nil || account.VerificationExpiry == nil {
		return pkgerrors.New(pkgerrors.CodeInvalidOrExpiredCode, "verification code is invalid or expired")
	}
	if time.Now().UTC().After(*account.VerificationExpiry) {
		return pkgerrors.New(pkgerrors.CodeInvalidOrExpiredCode, "verification code is invalid or expired")
	}
	stored := strings.TrimSpace(*account.VerificationCode)
	if subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(submitted))) != 1 {
		return pkgerrors.New(pkgerrors.CodeInvalidOrExpiredCode, "verification code is invalid or expired")
	}
	return nil
}
