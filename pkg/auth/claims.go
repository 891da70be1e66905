package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/wrapntrack/wrapntrack-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AccountID uuid.UUID
	Role      enums.AccountRole
	Verified  bool
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients. Verified is
// carried so that tokens issued at registration time can be restricted until
// the account confirms its code.
type AccessTokenClaims struct {
	AccountID uuid.UUID         `json:"account_id"`
	Role      enums.AccountRole `json:"role"`
	Verified  bool              `json:"verified"`
	jwt.RegisteredClaims
}
