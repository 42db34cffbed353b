// Package chat implements the client side of the hosted chat platform.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/token"
)

// ClientConfig holds configuration for the chat platform client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the chat platform's REST API. One channel exists per
// stream session, keyed by the session id.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	signer     *token.Signer
}

// NewClient creates a chat platform client. User tokens are minted locally
// with signer; everything else is a REST call.
func NewClient(cfg ClientConfig, signer *token.Signer) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		signer:     signer,
	}
}

// CreateChannel provisions the channel for a new stream session.
func (c *Client) CreateChannel(ctx context.Context, channelID uuid.UUID, ownerSubject string) error {
	body := map[string]string{
		"channel_id": channelID.String(),
		"owner":      ownerSubject,
	}
	return c.do(ctx, http.MethodPost, "/v1/channels", body)
}

// DeleteChannel tears the channel down.
func (c *Client) DeleteChannel(ctx context.Context, channelID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/v1/channels/"+channelID.String(), nil)
}

// ResetChannel truncates history, removes all members, and unfreezes.
func (c *Client) ResetChannel(ctx context.Context, channelID uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/v1/channels/"+channelID.String()+"/reset", nil)
}

// FreezeChannel freezes the channel so no further messages are accepted.
func (c *Client) FreezeChannel(ctx context.Context, channelID uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/v1/channels/"+channelID.String()+"/freeze", nil)
}

// AddMember joins a viewer to the channel.
func (c *Client) AddMember(ctx context.Context, channelID uuid.UUID, subject string) error {
	body := map[string]string{"subject": subject}
	return c.do(ctx, http.MethodPost, "/v1/channels/"+channelID.String()+"/members", body)
}

// BanUser bans a viewer from the channel and ejects them.
func (c *Client) BanUser(ctx context.Context, channelID uuid.UUID, subject, reason string) error {
	body := map[string]string{
		"subject": subject,
		"reason":  reason,
	}
	return c.do(ctx, http.MethodPost, "/v1/channels/"+channelID.String()+"/bans", body)
}

// UnbanUser lifts a ban.
func (c *Client) UnbanUser(ctx context.Context, channelID uuid.UUID, subject string) error {
	return c.do(ctx, http.MethodDelete, "/v1/channels/"+channelID.String()+"/bans/"+url.PathEscape(subject), nil)
}

// IsBanned reports whether the viewer is banned from the channel.
func (c *Client) IsBanned(ctx context.Context, channelID uuid.UUID, subject string) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/channels/"+channelID.String()+"/bans/"+url.PathEscape(subject), nil)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("chat request failed: %w", err)
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("chat platform returned status %d", resp.StatusCode)
	}
}

// CreateUserToken mints a chat credential for a viewer.
func (c *Client) CreateUserToken(subject string, ttl time.Duration) (string, error) {
	return c.signer.Sign(subject, token.AudienceChat, "", ttl)
}

func (c *Client) do(ctx context.Context, method, path string, body any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chat request failed: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chat platform returned status %d", resp.StatusCode)
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal chat request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// Compile-time interface check.
var _ repository.ChatService = (*Client)(nil)
