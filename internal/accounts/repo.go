package accounts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
)

// Repository defines persistence operations for accounts. Email lookups are
// case-insensitive, username lookups are exact.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.Account, error)
	SetVerificationCode(ctx context.Context, id uuid.UUID, code string, expiry time.Time) error
	SetResetCode(ctx context.Context, id uuid.UUID, code string, expiry time.Time) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email, code string, expiry time.Time) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	ClearExpiredCodes(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteStaleUnverified(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an accounts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) FindByIdentifier(ctx context.Context, identifier string) (*models.Account, error) {
	trimmed := strings.TrimSpace(identifier)
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("lower(email) = ? OR username = ?", strings.ToLower(trimmed), trimmed).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) SetVerificationCode(ctx context.Context, id uuid.UUID, code string, expiry time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_verified":         false,
			"verification_code":   code,
			"verification_expiry": expiry,
		}).Error
}

// SetResetCode stores a password reset code. Reset codes live in their own
// columns so issuing one never disturbs the verified flag.
func (r *repository) SetResetCode(ctx context.Context, id uuid.UUID, code string, expiry time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reset_code":   code,
			"reset_expiry": expiry,
		}).Error
}

func (r *repository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_verified":         true,
			"verification_code":   nil,
			"verification_expiry": nil,
		}).Error
}

func (r *repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"reset_code":    nil,
			"reset_expiry":  nil,
		}).Error
}

func (r *repository) UpdateEmail(ctx context.Context, id uuid.UUID, email, code string, expiry time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"email":               strings.ToLower(strings.TrimSpace(email)),
			"is_verified":         false,
			"verification_code":   code,
			"verification_expiry": expiry,
		}).Error
}

func (r *repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

// ClearExpiredCodes nulls out verification and reset codes whose expiry
// passed before the cutoff. Verified flags are left alone; affected accounts
// simply need a fresh code before they can verify or reset.
func (r *repository) ClearExpiredCodes(ctx context.Context, cutoff time.Time) (int64, error) {
	verification := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("verification_code IS NOT NULL AND verification_expiry < ?", cutoff).
		Updates(map[string]any{
			"verification_code":   nil,
			"verification_expiry": nil,
		})
	if verification.Error != nil {
		return verification.RowsAffected, verification.Error
	}

	reset := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("reset_code IS NOT NULL AND reset_expiry < ?", cutoff).
		Updates(map[string]any{
			"reset_code":   nil,
			"reset_expiry": nil,
		})
	return verification.RowsAffected + reset.RowsAffected, reset.Error
}

// DeleteStaleUnverified removes accounts created before the cutoff that never
// completed verification. The last-login guard keeps accounts that were
// verified at some point (an email change drops the flag again) out of the
// purge.
func (r *repository) DeleteStaleUnverified(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("is_verified = ? AND last_login_at IS NULL AND created_at < ?", false, cutoff).
		Delete(&models.Account{})
	return result.RowsAffected, result.Error
}
