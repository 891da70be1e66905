package security

import (
	"fmt"

	"github.com/wrapntrack/wrapntrack-backend/pkg/config"
)

var (
	numericCodeCharset = []rune("0123456789")
	alphaCodeCharset   = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
)

// GenerateVerificationCode produces a random one-time code using the
// configured alphabet and length.
func GenerateVerificationCode(cfg config.VerificationConfig) (string, error) {
	if cfg.CodeLength <= 0 {
		return "", fmt.Errorf("code length must be positive")
	}

	var charset []rune
	switch cfg.CodeAlphabet {
	case config.CodeAlphabetNumeric:
		charset = numericCodeCharset
	case config.CodeAlphabetAlpha:
		charset = alphaCodeCharset
	default:
		return "", fmt.Errorf("unknown code alphabet %q", cfg.CodeAlphabet)
	}

	result := make([]rune, cfg.CodeLength)
	for i := 0; i < cfg.CodeLength; i++ {
		idx, err := randInt(len(charset))
		if err != nil {
			return "", err
		}
		result[i] = charset[idx]
	}
	return string(result), nil
}
