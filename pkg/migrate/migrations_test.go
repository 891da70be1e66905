package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wrapntrack/wrapntrack-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"id text PRIMARY KEY",
		"CREATE TABLE IF NOT EXISTS order_lines",
		"REFERENCES orders(id) ON DELETE CASCADE",
		"CHECK (quantity >= 0)",
		"DROP TABLE IF EXISTS order_lines",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAccountsMigrationEnforcesVerificationInvariant(t *testing.T) {
	content := readMigration(t, "*_create_accounts.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS accounts",
		"CHECK (NOT is_verified OR verification_code IS NULL)",
		"idx_accounts_email ON accounts (lower(email))",
		"idx_accounts_username",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
