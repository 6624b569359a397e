package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var ErrUnexpectedResponse = errors.New("unexpected translation response")

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Translate sends text to the upstream endpoint and returns the first
// translated segment, found at [0][0][0] of the response.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", "auto")
	query.Set("tl", targetLanguage)
	query.Set("dt", "t")
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("translation upstream status %d", resp.StatusCode)
	}

	var payload []interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode translation response: %w", err)
	}
	return firstSegment(payload)
}

func firstSegment(payload []interface{}) (string, error) {
	if len(payload) == 0 {
		return "", ErrUnexpectedResponse
	}
	sentences, ok := payload[0].([]interface{})
	if !ok || len(sentences) == 0 {
		return "", ErrUnexpectedResponse
	}
	segment, ok := sentences[0].([]interface{})
	if !ok || len(segment) == 0 {
		return "", ErrUnexpectedResponse
	}
	translated, ok := segment[0].(string)
	if !ok {
		return "", ErrUnexpectedResponse
	}
	return translated, nil
}
