// Package voice talks to the hosted voice platform that places phone calls.
package voice

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

// CallRequest asks the platform to dial a customer with an assistant.
type CallRequest struct {
	CustomerNumber string
	AssistantID    string
	PhoneNumberID  string
	// ServerURL overrides where the platform posts call events, when set.
	ServerURL string
	// Metadata is echoed back by the platform on webhook events.
	Metadata map[string]string
}

type createCallBody struct {
	AssistantID        string              `json:"assistantId"`
	PhoneNumberID      string              `json:"phoneNumberId"`
	Customer           customer            `json:"customer"`
	AssistantOverrides *assistantOverrides `json:"assistantOverrides,omitempty"`
	Metadata           map[string]string   `json:"metadata,omitempty"`
}

type customer struct {
	Number string `json:"number"`
}

type assistantOverrides struct {
	ServerURL string `json:"serverUrl,omitempty"`
}

type createCallResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type apiError struct {
	Message any    `json:"message"`
	Error   string `json:"error"`
}

// StatusError is a non-2xx answer from the voice platform.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: voice platform status %d: %s", model.ErrUpstream, e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return model.ErrUpstream }

// Rejected reports whether the platform refused the request itself rather
// than failing to serve it. Rate limiting counts as a failure.
func (e *StatusError) Rejected() bool {
	return e.Code >= 400 && e.Code < 500 && e.Code != http.StatusTooManyRequests
}

// Client is a thin REST client for the voice platform.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for baseURL authenticated with apiKey.
func NewClient(baseURL, apiKey string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
	return &Client{http: c}
}

// CreateCall places an outbound call and returns the platform's call id.
func (c *Client) CreateCall(ctx context.Context, req CallRequest) (string, error) {
	body := createCallBody{
		AssistantID:   req.AssistantID,
		PhoneNumberID: req.PhoneNumberID,
		Customer:      customer{Number: req.CustomerNumber},
		Metadata:      req.Metadata,
	}
	if req.ServerURL != "" {
		body.AssistantOverrides = &assistantOverrides{ServerURL: req.ServerURL}
	}

	var out createCallResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/call")
	if err != nil {
		return "", fmt.Errorf("%w: voice platform request: %v", model.ErrUpstream, err)
	}
	if resp.IsError() {
		return "", &StatusError{Code: resp.StatusCode(), Message: errorMessage(apiErr, resp.Body())}
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: voice platform returned no call id", model.ErrUpstream)
	}
	return out.ID, nil
}

// HealthPing checks that the platform answers. Any HTTP response counts as reachable.
func (c *Client) HealthPing(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/assistant?limit=1")
	if err != nil {
		return err
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("voice platform status %d", resp.StatusCode())
	}
	return nil
}

// errorMessage extracts the platform's message. resty only decodes error
// bodies served as JSON, so other content types are decoded here.
func errorMessage(parsed apiError, body []byte) string {
	if msg := parsed.describe(); msg != "" {
		return msg
	}
	var fromBody apiError
	if err := json.Unmarshal(body, &fromBody); err == nil {
		if msg := fromBody.describe(); msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(string(body))
}

func (e apiError) describe() string {
	switch m := e.Message.(type) {
	case string:
		if m != "" {
			return m
		}
	case []any:
		parts := make([]string, 0, len(m))
		for _, p := range m {
			parts = append(parts, fmt.Sprint(p))
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	return e.Error
}
