package security_test

import (
	"testing"

	"github.com/wrapntrack/wrapntrack-backend/pkg/config"
	"github.com/wrapntrack/wrapntrack-backend/pkg/security"
)

func TestGenerateVerificationCodeNumeric(t *testing.T) {
	cfg := config.VerificationConfig{CodeAlphabet: config.CodeAlphabetNumeric, CodeLength: 6}

	code, err := security.GenerateVerificationCode(cfg)
	if err != nil {
		t.Fatalf("GenerateVerificationCode returned error: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6 characters, got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("expected digits only, got %q", code)
		}
	}
}

func TestGenerateVerificationCodeAlpha(t *testing.T) {
	cfg := config.VerificationConfig{CodeAlphabet: config.CodeAlphabetAlpha, CodeLength: 6}

	code, err := security.GenerateVerificationCode(cfg)
	if err != nil {
		t.Fatalf("GenerateVerificationCode returned error: %v", err)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			t.Fatalf("expected uppercase letters only, got %q", code)
		}
	}
}

func TestGenerateVerificationCodeBadConfig(t *testing.T) {
	if _, err := security.GenerateVerificationCode(config.VerificationConfig{CodeAlphabet: "hex", CodeLength: 6}); err == nil {
		t.Fatal("expected error for unknown alphabet")
	}
	if _, err := security.GenerateVerificationCode(config.VerificationConfig{CodeAlphabet: config.CodeAlphabetNumeric}); err == nil {
		t.Fatal("expected error for zero length")
	}
}
