package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error should not be a unique violation")
	}

	pgErr := errors.New(`ERROR: duplicate key value violates unique constraint "orders_pkey" (SQLSTATE 23505)`)
	if !IsUniqueViolation(pgErr, "") {
		t.Fatal("expected postgres duplicate key message to match")
	}
	if !IsUniqueViolation(pgErr, "orders_pkey") {
		t.Fatal("expected constraint name match")
	}
	if IsUniqueViolation(pgErr, "idx_accounts_email") {
		t.Fatal("a different constraint's violation must not match by name")
	}
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("unrelated error should not match")
	}
	if IsUniqueViolation(errors.New(`relation "orders_pkey" does not exist`), "orders_pkey") {
		t.Fatal("name match alone must not flag a non-unique error")
	}

	sqliteErr := errors.New("UNIQUE constraint failed: orders.id")
	if !IsUniqueViolation(sqliteErr, "") {
		t.Fatal("expected sqlite unique message to match")
	}
	if !IsUniqueViolation(sqliteErr, "orders.id") {
		t.Fatal("expected sqlite column form to match by name")
	}
}
