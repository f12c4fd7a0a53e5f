package eventpublisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const contentTypeCloudEventsJSON = "application/cloudevents+json"

// Publish sends event and returns the gateway receipt.
func (c Client) Publish(ctx context.Context, event Event) (Receipt, error) {
	body, _, err := BuildEventBody(event)
	if err != nil {
		return Receipt{}, err
	}
	return c.publishBody(ctx, normalizeProvider(event.Provider), body)
}

func (c Client) publishBody(ctx context.Context, provider string, body []byte) (Receipt, error) {
	endpoint := strings.TrimSpace(c.Endpoint)
	if endpoint == "" {
		return Receipt{}, fmt.Errorf("endpoint is required")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	requestURL := strings.TrimRight(endpoint, "/") + "/webhooks/" + url.PathEscape(provider)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeCloudEventsJSON)

	resp, err := httpClient.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= http.StatusMultipleChoices {
		return Receipt{}, fmt.Errorf("webhook rejected: status=%s body=%s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var receipt Receipt
	if err := json.Unmarshal(payload, &receipt); err != nil {
		return Receipt{}, fmt.Errorf("decode receipt: %w", err)
	}
	return receipt, nil
}
