package mailer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/wrapntrack/wrapntrack-backend/pkg/config"
	pkgerrors "github.com/wrapntrack/wrapntrack-backend/pkg/errors"
)

func TestClientSendRequest(t *testing.T) {
	const expectedURL = "http://mail.test/v1/messages"

	var capturedURL string
	var capturedHeaders http.Header
	var capturedBody map[string]any

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()

		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(bodyBytes, &capturedBody); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}

		return &http.Response{
			StatusCode: http.StatusAccepted,
			Body:       io.NopCloser(strings.NewReader(`{"id":"msg_1"}`)),
			Header:     http.Header{},
		}, nil
	})

	cfg := config.MailerConfig{APIKey: "test-key", DefaultFrom: "no-reply@wrapntrack.app"}
	client, err := NewClient(cfg, WithBaseURL("http://mail.test/v1"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.Send(context.Background(), Message{
		To:      "alice@example.com",
		Subject: "Your verification code",
		Text:    "Code: 123456",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedHeaders.Get("Authorization") != "Bearer test-key" {
		t.Fatalf("authorization header missing")
	}
	if capturedBody["from"] != "no-reply@wrapntrack.app" {
		t.Fatalf("default from not applied, got %q", capturedBody["from"])
	}
	if capturedBody["to"] != "alice@example.com" {
		t.Fatalf("unexpected recipient %q", capturedBody["to"])
	}
}

func TestClientSendUpstreamError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("upstream down")),
			Header:     http.Header{},
		}, nil
	})

	cfg := config.MailerConfig{APIKey: "test-key"}
	client, err := NewClient(cfg, WithBaseURL("http://mail.test/v1"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.Send(context.Background(), Message{To: "bob@example.com"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestClientSendValidation(t *testing.T) {
	cfg := config.MailerConfig{APIKey: "test-key"}
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Send(context.Background(), Message{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(config.MailerConfig{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
