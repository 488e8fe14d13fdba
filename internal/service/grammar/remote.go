package grammar

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

// TagResponse is the wire format of the tagging service
type TagResponse struct {
	Word string `json:"word"`
	Tag  string `json:"tag"`
}

// RemoteTagger asks a tagging service over HTTP: GET {base}/api/v1/tag/{word}
type RemoteTagger struct {
	baseURL string
	client  *http.Client
}

// NewRemoteTagger creates a client for the tagging service at baseURL
func NewRemoteTagger(baseURL string, client *http.Client) (*RemoteTagger, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("tagging service URL is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid tagging service URL %q: %w", baseURL, err)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RemoteTagger{baseURL: baseURL, client: client}, nil
}

func (t *RemoteTagger) Tag(ctx context.Context, word string) (string, error) {
	endpoint := t.baseURL + "/api/v1/tag/" + url.PathEscape(word)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build tag request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("tag request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("tagging service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out TagResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode tag response: %w", err)
	}
	if out.Tag == "" {
		return "", fmt.Errorf("tagging service returned no tag for %q", word)
	}
	return out.Tag, nil
}

func (t *RemoteTagger) Name() string {
	return "remote:" + t.baseURL
}
