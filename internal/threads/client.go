package threads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the Threads Graph API for a single account.
type Client struct {
	httpClient  http.Client
	baseURL     string
	accessToken string
	userID      string
}

func NewClient(baseURL, accessToken, userID string, timeout time.Duration) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		httpClient: http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		accessToken: accessToken,
		userID:      userID,
	}
}

// CreateContainer creates a text media container, optionally as a reply to a
// previously published post. It returns the container ID to publish.
func (c *Client) CreateContainer(ctx context.Context, text, replyToID string) (string, error) {

	form := url.Values{}
	form.Set("media_type", "TEXT")
	form.Set("text", text)
	if replyToID != "" {
		form.Set("reply_to_id", replyToID)
	}

	id, err := c.postForm(ctx, c.baseURL+c.userID+"/threads", form)
	if err != nil {
		return "", fmt.Errorf("create media container: %w", err)
	}

	return id, nil
}

// PublishContainer publishes a previously created container and returns the
// published media ID.
func (c *Client) PublishContainer(ctx context.Context, creationID string) (string, error) {

	form := url.Values{}
	form.Set("creation_id", creationID)

	id, err := c.postForm(ctx, c.baseURL+c.userID+"/threads_publish", form)
	if err != nil {
		return "", fmt.Errorf("publish media container: %w", err)
	}

	return id, nil
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values) (string, error) {

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("no id in response: %s", string(body))
	}

	return result.ID, nil
}
