package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a thin Bot API client for processes that only send messages and
// do not consume updates (the reward service's broadcast endpoint).
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		BaseURL: "https://api.telegram.org",
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *Client) doRequest(ctx context.Context, method string, body any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.BaseURL, c.Token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if !parsed.OK {
		return fmt.Errorf("api error: %s (status: %d)", parsed.Description, resp.StatusCode)
	}
	return nil
}

func (c *Client) SendText(ctx context.Context, userID int64, text string) error {
	return c.doRequest(ctx, "sendMessage", map[string]any{
		"chat_id":    userID,
		"text":       text,
		"parse_mode": "HTML",
	})
}

func (c *Client) SendPhoto(ctx context.Context, userID int64, fileID, caption string) error {
	return c.doRequest(ctx, "sendPhoto", map[string]any{
		"chat_id":    userID,
		"photo":      fileID,
		"caption":    caption,
		"parse_mode": "HTML",
	})
}
