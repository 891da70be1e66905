package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/wrapntrack/wrapntrack-backend/pkg/auth"
	"github.com/wrapntrack/wrapntrack-backend/pkg/config"
	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
	pkgerrors "github.com/wrapntrack/wrapntrack-backend/pkg/errors"
	"github.com/wrapntrack/wrapntrack-backend/pkg/logger"
	"github.com/wrapntrack/wrapntrack-backend/pkg/mailer"
	"github.com/wrapntrack/wrapntrack-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service governs the account lifecycle: registration, code verification,
// login, and password reset.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	VerifyCode(ctx context.Context, req VerifyRequest) error
	ResendCode(ctx context.Context, req ResendRequest) (bool, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (bool, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	ChangeEmail(ctx context.Context, accountID uuid.UUID, req ChangeEmailRequest) (bool, error)
	GetByID(ctx context.Context, accountID uuid.UUID) (*AccountDTO, error)
}

type service struct {
	repo            Repository
	tx              txRunner
	sender          mailer.Sender
	logg            *logger.Logger
	verificationCfg config.VerificationConfig
	passwordCfg     config.PasswordConfig
	jwtCfg          config.JWTConfig
}

// ServiceParams bundles the dependencies required to build the accounts service.
type ServiceParams struct {
	Repo             Repository
	Tx               txRunner
	Sender           mailer.Sender
	Logger           *logger.Logger
	VerificationCfg  config.VerificationConfig
	PasswordCfg      config.PasswordConfig
	JWTCfg           config.JWTConfig
}

// NewService constructs the accounts service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("accounts repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("mail sender is required")
	}
	return &service{
		repo:            params.Repo,
		tx:              params.Tx,
		sender:          params.Sender,
		logg:            params.Logger,
		verificationCfg: params.VerificationCfg,
		passwordCfg:     params.PasswordCfg,
		jwtCfg:          params.JWTCfg,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	account, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}

	valid, err := security.VerifyPassword(req.Password, account.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}
	if !account.IsVerified {
		return nil, pkgerrors.New(pkgerrors.CodeNotVerified, "account is not verified")
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, account.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	account.LastLoginAt = &now

	token, err := s.mintToken(account, now)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:   token,
		Account: FromModel(account),
	}, nil
}

func (s *service) GetByID(ctx context.Context, accountID uuid.UUID) (*AccountDTO, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeAccountNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}
	dto := FromModel(account)
	return &dto, nil
}

func (s *service) mintToken(account *models.Account, now time.Time) (string, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		AccountID: account.ID,
		Role:      account.Role,
		Verified:  account.IsVerified,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

// issueCode generates a fresh verification code and its expiry.
func (s *service) issueCode() (string, time.Time, error) {
	code, err := security.GenerateVerificationCode(s.verificationCfg)
	if err != nil {
		return "", time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification code")
	}
	return code, time.Now().UTC().Add(s.verificationCfg.CodeTTL), nil
}

// deliverCode attempts delivery and reports success. A failed send is logged
// and never fails the surrounding operation.
func (s *service) deliverCode(ctx context.Context, account *models.Account, subject, body string) bool {
	err := s.sender.Send(ctx, mailer.Message{
		To:      account.Email,
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		if s.logg != nil {
			ctx = s.logg.WithAccountID(ctx, account.ID.String())
			s.logg.Error(ctx, "verification email delivery failed", err)
		}
		return false
	}
	return true
}
