package bcra

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/diillson/bcra-dashboard-go/internal/shared/types"
)

const (
	defaultBaseURL        = "https://api.bcra.gob.ar/estadisticas/v4.0"
	defaultTimeoutSeconds = 30
	defaultUserAgent      = "bcra-dashboard-go"
	acceptJSON            = "application/json"
	maxErrorBodyLength    = 512
)

// Config configura o cliente HTTP da API de estatísticas.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// The upstream certificate chain does not validate on most systems.
	InsecureSkipVerify bool
	UserAgent          string
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		BaseURL:            defaultBaseURL,
		Timeout:            defaultTimeoutSeconds * time.Second,
		InsecureSkipVerify: true,
		UserAgent:          defaultUserAgent,
	}
}

// Envelope is a decoded JSON response body. Numbers are kept as json.Number.
type Envelope map[string]any

// Client executa requisições GET contra a API do BCRA.
type Client struct {
	config Config
	client *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeoutSeconds * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify} //nolint:gosec

	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout, Transport: transport},
	}, nil
}

// BaseURL returns the normalized base endpoint.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Fetch executa um GET em path e decodifica o corpo como JSON.
// Qualquer falha é devolvida como *types.TransportError.
func (c *Client) Fetch(ctx context.Context, path string, params url.Values) (Envelope, error) {
	endpoint := c.buildURL(path, params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &types.TransportError{URL: endpoint, Message: "could not build request", Err: err}
	}
	req.Header.Set("Accept", acceptJSON)
	req.Header.Set("Content-Type", acceptJSON)
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &types.TransportError{URL: endpoint, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.TransportError{StatusCode: resp.StatusCode, URL: endpoint, Message: "could not read response body", Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &types.TransportError{
			StatusCode: resp.StatusCode,
			URL:        endpoint,
			Message:    statusMessage(resp.Status, body),
		}
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, &types.TransportError{StatusCode: resp.StatusCode, URL: endpoint, Message: "invalid JSON body", Err: err}
	}
	return env, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

func (c *Client) buildURL(path string, params url.Values) string {
	endpoint := c.config.BaseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	return endpoint
}

func decodeEnvelope(body []byte) (Envelope, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, errors.New("unexpected data after JSON value")
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %T", raw)
	}
	return Envelope(obj), nil
}

// statusMessage extrai a mensagem de erro da API quando presente.
func statusMessage(status string, body []byte) string {
	if env, err := decodeEnvelope(body); err == nil {
		if msgs, ok := env["errorMessages"].([]any); ok && len(msgs) > 0 {
			parts := make([]string, 0, len(msgs))
			for _, m := range msgs {
				parts = append(parts, fmt.Sprint(m))
			}
			return fmt.Sprintf("%s: %s", status, strings.Join(parts, "; "))
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBodyLength {
		text = text[:maxErrorBodyLength] + "..."
	}
	if text == "" {
		return status
	}
	return fmt.Sprintf("%s: %s", status, text)
}
