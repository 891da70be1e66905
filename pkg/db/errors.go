package db

import "strings"

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. When constraintName is provided it must appear in the
// error message, which lets callers with several unique indexes tell them
// apart. The SQLite message form is recognized so repository tests behave
// like Postgres; SQLite names the column (accounts.email) where Postgres
// names the index.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") &&
		!strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return constraintName == "" || strings.Contains(msg, constraintName)
}
