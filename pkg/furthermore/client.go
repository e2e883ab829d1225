package furthermore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/berahive/furthermore-harvester/pkg/httpclient"
)

const (
	// DefaultBaseURL is the production Furthermore API root.
	DefaultBaseURL = "https://pre.furthermore.app/api/v1"

	// APIKeyEnvVar names the environment variable consulted when no explicit
	// API key is configured.
	APIKeyEnvVar = "FURTHERMORE_API_KEY"

	defaultTimeout = 10 * time.Second
)

// Config holds the constructor inputs for a Client. All fields are optional
// except that an API key must be resolvable from APIKey or the environment.
type Config struct {
	BaseURL string
	APIKey  string
	HTTP    httpclient.Client
	Log     Logger
}

// ResolveConfig fills defaults and resolves the API key, preferring the
// explicit value over the environment. It is pure: env access goes through
// lookupEnv so tests can substitute it.
func ResolveConfig(cfg Config, lookupEnv func(string) (string, bool)) (Config, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.APIKey == "" && lookupEnv != nil {
		if v, ok := lookupEnv(APIKeyEnvVar); ok {
			cfg.APIKey = v
		}
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Config{}, &ConfigError{
			Reason: fmt.Sprintf("API key not provided and not found in environment variable %q", APIKeyEnvVar),
		}
	}

	if cfg.HTTP == nil {
		cfg.HTTP = httpclient.NewRestyClient(defaultTimeout)
	}
	cfg.Log = ensureLogger(cfg.Log)
	return cfg, nil
}

// Client fetches vault listings, BGT derivative prices, and source names from
// the Furthermore API. It holds only immutable configuration and is safe for
// concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    httpclient.Client
	log     Logger
	headers map[string]string
}

// NewClient builds a Client, resolving the API key from cfg or the
// FURTHERMORE_API_KEY environment variable. Construction fails with a
// ConfigError when neither yields a key.
func NewClient(cfg Config) (*Client, error) {
	resolved, err := ResolveConfig(cfg, os.LookupEnv)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: resolved.BaseURL,
		apiKey:  resolved.APIKey,
		http:    resolved.HTTP,
		log:     resolved.Log,
		headers: map[string]string{
			"Authorization": "Bearer " + resolved.APIKey,
			"Content-Type":  "application/json",
		},
	}
	c.log.InfoObj("furthermore client initialized", "base_url", c.baseURL)
	return c, nil
}

// Vaults fetches a page of vaults from /vaults. The decoded JSON body is
// returned unmodified; callers needing structure should inspect the "vaults"
// and "count" keys.
func (c *Client) Vaults(ctx context.Context, q VaultsQuery) (map[string]any, error) {
	var body map[string]any
	if err := c.getJSON(ctx, "/vaults", q.params(), &body); err != nil {
		return nil, err
	}
	return body, nil
}

// BGTPrices fetches current BGT derivative prices from /bgt/prices. The
// decoded JSON body is returned unmodified.
func (c *Client) BGTPrices(ctx context.Context) (map[string]any, error) {
	var body map[string]any
	if err := c.getJSON(ctx, "/bgt/prices", nil, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// getJSON performs a GET against the given endpoint path and decodes the
// response into out. Failures map onto the package error types and are logged
// before returning.
func (c *Client) getJSON(ctx context.Context, endpoint string, query map[string]string, out any) error {
	url := c.baseURL + endpoint
	c.log.DebugObj("furthermore request", "request", map[string]any{
		"url":    url,
		"params": query,
	})

	resp, err := c.http.Get(ctx, url, c.headers, query)
	if err != nil {
		terr := &TransportError{URL: url, Err: err}
		c.log.ErrorObj("furthermore request failed", "error", terr.Error())
		return terr
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		serr := &StatusError{URL: url, Code: code, Body: responseSnippet(body)}
		c.log.ErrorObj("furthermore response status", "error", map[string]any{
			"url":    url,
			"status": code,
			"body":   serr.Body,
		})
		return serr
	}

	if err := json.Unmarshal(body, out); err != nil {
		derr := &DecodeError{URL: url, Err: err}
		c.log.ErrorObj("furthermore response decode failed", "error", derr.Error())
		return derr
	}
	return nil
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
