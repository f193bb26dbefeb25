package threads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type insightsResponse struct {
	Data []struct {
		Name   string `json:"name"`
		Values []struct {
			Value int `json:"value"`
		} `json:"values"`
		TotalValue *struct {
			Value int `json:"value"`
		} `json:"total_value"`
	} `json:"data"`
}

// Insights fetches the named metrics for a published media ID. Every requested
// metric is present in the returned map; metrics the API did not report come
// back as zero. A response with no data at all is an error, so a bad or
// deleted media ID never produces an all-zero row.
func (c *Client) Insights(ctx context.Context, mediaID string, metrics []string) (map[string]int, error) {

	endpoint := c.baseURL + mediaID + "/insights?metric=" + url.QueryEscape(strings.Join(metrics, ","))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var feed insightsResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(feed.Data) == 0 {
		return nil, fmt.Errorf("no insights data for media %v", mediaID)
	}

	result := make(map[string]int, len(metrics))
	for _, name := range metrics {
		result[name] = 0
	}

	for _, metric := range feed.Data {
		if _, wanted := result[metric.Name]; !wanted {
			continue
		}
		switch {
		case metric.TotalValue != nil:
			result[metric.Name] = metric.TotalValue.Value
		case len(metric.Values) != 0:
			// Time-series metric, the last sample is the current total.
			result[metric.Name] = metric.Values[len(metric.Values)-1].Value
		}
	}

	return result, nil
}
