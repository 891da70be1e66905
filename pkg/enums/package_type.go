package enums

import "fmt"

// PackageType classifies what kind of wrap job an order is.
type PackageType string

const (
	PackageTypeStandard   PackageType = "standard"
	PackageTypeGiftBasket PackageType = "gift_basket"
	PackageTypeCorporate  PackageType = "corporate"
	PackageTypeWedding    PackageType = "wedding"
)

var validPackageTypes = []PackageType{
	PackageTypeStandard,
	PackageTypeGiftBasket,
	PackageTypeCorporate,
	PackageTypeWedding,
}

// String implements fmt.Stringer.
func (p PackageType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PackageType.
func (p PackageType) IsValid() bool {
	for _, candidate := range validPackageTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsWedding reports whether the package carries the auxiliary wedding detail
// record.
func (p PackageType) IsWedding() bool {
	return p == PackageTypeWedding
}

// ParsePackageType converts raw input into a PackageType.
func ParsePackageType(value string) (PackageType, error) {
	for _, candidate := range validPackageTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid package type %q", value)
}
