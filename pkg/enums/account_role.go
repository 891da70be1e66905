package enums

import "fmt"

// AccountRole distinguishes staff users from storefront customers.
type AccountRole string

const (
	AccountRoleUser     AccountRole = "user"
	AccountRoleCustomer AccountRole = "customer"
	AccountRoleAdmin    AccountRole = "admin"
)

var validAccountRoles = []AccountRole{
	AccountRoleUser,
	AccountRoleCustomer,
	AccountRoleAdmin,
}

// String implements fmt.Stringer.
func (a AccountRole) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AccountRole.
func (a AccountRole) IsValid() bool {
	for _, candidate := range validAccountRoles {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccountRole converts raw input into an AccountRole.
func ParseAccountRole(value string) (AccountRole, error) {
	for _, candidate := range validAccountRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account role %q", value)
}
