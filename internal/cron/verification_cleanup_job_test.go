package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wrapntrack/wrapntrack-backend/pkg/db"
	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
	"github.com/wrapntrack/wrapntrack-backend/pkg/logger"
)

func setupCronTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:cron_%s?mode=memory&cache=shared", uuid.NewString()[:8])
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	accountsTable := `
CREATE TABLE accounts (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  username TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  role TEXT NOT NULL DEFAULT 'customer',
  is_verified INTEGER NOT NULL DEFAULT 0,
  verification_code TEXT,
  verification_expiry DATETIME,
  reset_code TEXT,
  reset_expiry DATETIME,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(accountsTable).Error)
	return conn
}

func seedCronAccount(t *testing.T, conn *gorm.DB, verified bool, code *string, expiry *time.Time, createdAt time.Time) *models.Account {
	t.Helper()

	account := &models.Account{
		ID:                 uuid.New(),
		Email:              fmt.Sprintf("cron_%s@example.com", uuid.NewString()[:8]),
		Username:           fmt.Sprintf("cron_%s", uuid.NewString()[:8]),
		PasswordHash:       "hash",
		FirstName:          "Cron",
		LastName:           "Tester",
		IsVerified:         verified,
		VerificationCode:   code,
		VerificationExpiry: expiry,
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}
	require.NoError(t, conn.Create(account).Error)
	return account
}

func strPtr(v string) *string {
	return &v
}

func TestVerificationCleanupJob(t *testing.T) {
	conn := setupCronTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "cron-test"})

	now := time.Now().UTC()
	expired := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	stale := seedCronAccount(t, conn, false, strPtr("111111"), &expired, now.AddDate(0, 0, -40))
	pending := seedCronAccount(t, conn, false, strPtr("222222"), &future, now)
	lapsed := seedCronAccount(t, conn, false, strPtr("333333"), &expired, now)
	verified := seedCronAccount(t, conn, true, nil, nil, now.AddDate(0, 0, -40))

	job, err := NewVerificationCleanupJob(VerificationCleanupJobParams{
		Logger: logg,
		DB:     db.FromGorm(conn),
	})
	require.NoError(t, err)
	require.Equal(t, "verification-cleanup", job.Name())
	require.NoError(t, job.Run(context.Background()))

	var gone models.Account
	err = conn.First(&gone, "id = ?", stale.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var kept models.Account
	require.NoError(t, conn.First(&kept, "id = ?", pending.ID).Error)
	require.NotNil(t, kept.VerificationCode)
	assert.Equal(t, "222222", *kept.VerificationCode)

	var cleared models.Account
	require.NoError(t, conn.First(&cleared, "id = ?", lapsed.ID).Error)
	assert.Nil(t, cleared.VerificationCode)
	assert.Nil(t, cleared.VerificationExpiry)
	assert.False(t, cleared.IsVerified)

	var untouched models.Account
	require.NoError(t, conn.First(&untouched, "id = ?", verified.ID).Error)
	assert.True(t, untouched.IsVerified)
}

func TestCleanupSparesVerifiedAccountsMidReset(t *testing.T) {
	conn := setupCronTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "cron-test"})

	now := time.Now().UTC()
	old := now.AddDate(0, 0, -40)
	resetExpiry := now.Add(time.Hour)
	lapsedExpiry := now.Add(-time.Hour)

	// a long-standing verified account in the middle of a password reset
	midReset := seedCronAccount(t, conn, true, nil, nil, old)
	require.NoError(t, conn.Model(&models.Account{}).Where("id = ?", midReset.ID).Updates(map[string]any{
		"reset_code":    "444444",
		"reset_expiry":  resetExpiry,
		"last_login_at": old,
	}).Error)

	// a verified account whose reset code lapsed without being used
	lapsedReset := seedCronAccount(t, conn, true, nil, nil, old)
	require.NoError(t, conn.Model(&models.Account{}).Where("id = ?", lapsedReset.ID).Updates(map[string]any{
		"reset_code":    "555555",
		"reset_expiry":  lapsedExpiry,
		"last_login_at": old,
	}).Error)

	// once verified, changed email and never confirmed the new address
	relapsed := seedCronAccount(t, conn, false, strPtr("666666"), &resetExpiry, old)
	require.NoError(t, conn.Model(&models.Account{}).Where("id = ?", relapsed.ID).
		Update("last_login_at", old).Error)

	job, err := NewVerificationCleanupJob(VerificationCleanupJobParams{
		Logger: logg,
		DB:     db.FromGorm(conn),
	})
	require.NoError(t, err)
	require.NoError(t, job.Run(context.Background()))

	var kept models.Account
	require.NoError(t, conn.First(&kept, "id = ?", midReset.ID).Error)
	assert.True(t, kept.IsVerified)
	require.NotNil(t, kept.ResetCode)
	assert.Equal(t, "444444", *kept.ResetCode)

	var cleared models.Account
	require.NoError(t, conn.First(&cleared, "id = ?", lapsedReset.ID).Error)
	assert.True(t, cleared.IsVerified)
	assert.Nil(t, cleared.ResetCode)
	assert.Nil(t, cleared.ResetExpiry)

	var survivor models.Account
	require.NoError(t, conn.First(&survivor, "id = ?", relapsed.ID).Error)
	assert.False(t, survivor.IsVerified)
}
