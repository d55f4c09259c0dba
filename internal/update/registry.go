package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultRegistryURL is the public npm registry.
	DefaultRegistryURL = "https://registry.npmjs.org"

	// maxJSONResponseBytes bounds the size of a registry response.
	maxJSONResponseBytes = 1 << 20
)

// ErrRegistry is returned when the registry answers with a non-2xx status.
var ErrRegistry = errors.New("registry request failed")

type (
	// RegistryClient fetches the latest published version of a package.
	RegistryClient struct {
		httpClient *http.Client
		baseURL    string
		userAgent  string
	}

	// ClientOption configures a RegistryClient during construction.
	ClientOption func(*RegistryClient)

	// manifest is the wire format of GET /<name>/latest.
	manifest struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(r *RegistryClient) { r.httpClient = c }
}

// WithBaseURL overrides the registry base URL, primarily for test servers.
func WithBaseURL(base string) ClientOption {
	return func(r *RegistryClient) { r.baseURL = strings.TrimRight(base, "/") }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(r *RegistryClient) { r.userAgent = ua }
}

// NewRegistryClient creates a client for DefaultRegistryURL with a 10s timeout.
func NewRegistryClient(opts ...ClientOption) *RegistryClient {
	r := &RegistryClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultRegistryURL,
		userAgent:  "scaffkit",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Latest returns the version tagged latest for the named package.
func (r *RegistryClient) Latest(ctx context.Context, name string) (string, error) {
	endpoint := r.baseURL + "/" + url.PathEscape(name) + "/latest"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("querying registry for %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %s", ErrRegistry, name, resp.Status)
	}

	var m manifest
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(&m); err != nil {
		return "", fmt.Errorf("decoding registry response for %s: %w", name, err)
	}
	if m.Version == "" {
		return "", fmt.Errorf("%w: %s has no latest version", ErrRegistry, name)
	}
	return m.Version, nil
}
