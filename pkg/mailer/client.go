package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wrapntrack/wrapntrack-backend/pkg/config"
	pkgerrors "github.com/wrapntrack/wrapntrack-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://api.mailprovider.io/v1"
	responseBodyReadLimit int64 = 1024
)

var errAPIKeyRequired = errors.New("mailer api key is required")

// Message is a single transactional email.
type Message struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Sender delivers transactional mail. Delivery failures are reported to the
// caller but are never fatal to the surrounding operation.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client posts messages to the configured transactional mail API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	defaultFrom string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured mail API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the mail client from config.
func NewClient(cfg config.MailerConfig, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(cfg.APIKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		apiKey:      trimmedKey,
		baseURL:     defaultBaseURL,
		defaultFrom: cfg.DefaultFrom,
		httpClient:  &http.Client{Timeout: timeout},
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		client.baseURL = strings.TrimSpace(cfg.BaseURL)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Send posts the message to the mail API.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "mailer client not configured")
	}
	if strings.TrimSpace(msg.To) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient is required")
	}
	if msg.From == "" {
		msg.From = c.defaultFrom
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal mail message")
	}

	url := strings.TrimRight(c.baseURL, "/") + "/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build mail request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute mail request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), "mail request failed")
	}
	return nil
}
