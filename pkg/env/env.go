// Package env holds tiny environment lookups used before the typed config is
// available (bootstrap logging, tooling).
package env

import "os"

// Get returns the value of the given environment variable or a fallback.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
