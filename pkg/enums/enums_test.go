package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusParse(t *testing.T) {
	status, err := ParseOrderStatus("ready_for_pickup")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusReadyForPickup, status)
	assert.True(t, status.IsValid())

	_, err = ParseOrderStatus("shipped")
	assert.Error(t, err)
}

func TestAccountRoleParse(t *testing.T) {
	role, err := ParseAccountRole("admin")
	require.NoError(t, err)
	assert.Equal(t, AccountRoleAdmin, role)

	_, err = ParseAccountRole("superuser")
	assert.Error(t, err)
	assert.False(t, AccountRole("superuser").IsValid())
}

func TestPaymentMethodParse(t *testing.T) {
	method, err := ParsePaymentMethod("gcash")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodGCash, method)

	_, err = ParsePaymentMethod("crypto")
	assert.Error(t, err)
}

func TestPackageTypeWedding(t *testing.T) {
	pkg, err := ParsePackageType("wedding")
	require.NoError(t, err)
	assert.True(t, pkg.IsWedding())
	assert.False(t, PackageTypeStandard.IsWedding())

	_, err = ParsePackageType("birthday")
	assert.Error(t, err)
}
