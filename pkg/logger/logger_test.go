package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	return payload
}

func TestInfoCarriesServiceAndFields(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-123")
	ctx = logg.WithAccountID(ctx, "acct-9")
	logg.Info(ctx, "request.start")

	payload := decodeLine(t, &buf)
	if payload["service"] != "api" {
		t.Fatalf("expected service field, got %v", payload["service"])
	}
	if payload["request_id"] != "req-123" {
		t.Fatalf("expected request_id field, got %v", payload["request_id"])
	}
	if payload["account_id"] != "acct-9" {
		t.Fatalf("expected account_id field, got %v", payload["account_id"])
	}
	if payload["message"] != "request.start" {
		t.Fatalf("unexpected message %v", payload["message"])
	}
}

func TestErrorIncludesErrAndStack(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Output: &buf})

	logg.Error(context.Background(), "request.error", errors.New("boom"))

	payload := decodeLine(t, &buf)
	if payload["error"] != "boom" {
		t.Fatalf("expected error field, got %v", payload["error"])
	}
	if payload["stack"] == nil {
		t.Fatal("expected stack field on error logs")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Level: zerolog.WarnLevel, Output: &buf})

	logg.Info(context.Background(), "ignored")
	if buf.Len() != 0 {
		t.Fatalf("expected info suppressed at warn level, got %q", buf.String())
	}

	logg.Warn(context.Background(), "kept")
	if buf.Len() == 0 {
		t.Fatal("expected warn emitted")
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Fatal("expected debug level")
	}
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatal("expected info fallback for empty value")
	}
	if ParseLevel("nope") != zerolog.InfoLevel {
		t.Fatal("expected info fallback for unknown value")
	}
}
