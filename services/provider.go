package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// SendRequest is one templated notification for one recipient. The vendor
// picks the delivery channel (push, email, SMS) per recipient and interpolates
// MergeTags into the template named by TemplateID.
type SendRequest struct {
	TemplateID string            `json:"notificationId"`
	User       ProviderUser      `json:"user"`
	MergeTags  map[string]string `json:"mergeTags,omitempty"`
}

type ProviderUser struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Number string `json:"number,omitempty"`
}

// Provider is the external notification vendor. Any service offering
// "send templated notification to a user identifier with merge-tag
// substitution" semantics is substitutable here.
type Provider interface {
	Send(ctx context.Context, req SendRequest) error
}

// NotificationAPIClient talks to the hosted notification vendor over HTTPS
// with basic auth (client id / secret from the environment).
type NotificationAPIClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	client       *http.Client
}

func NewNotificationAPIClient() *NotificationAPIClient {
	base := os.Getenv("NOTIFICATIONAPI_BASE_URL")
	if base == "" {
		base = "https://api.notificationapi.com"
	}
	return &NotificationAPIClient{
		baseURL:      base,
		clientID:     os.Getenv("NOTIFICATIONAPI_CLIENT_ID"),
		clientSecret: os.Getenv("NOTIFICATIONAPI_CLIENT_SECRET"),
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *NotificationAPIClient) Send(ctx context.Context, req SendRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return providerErr("encode send request", err)
	}

	url := fmt.Sprintf("%s/%s/sender", c.baseURL, c.clientID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return providerErr("build send request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return providerErr("call notification vendor", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return providerErr("notification vendor", fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}
	return nil
}
