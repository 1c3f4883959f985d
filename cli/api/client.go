package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/liora-cosmetic/liora/pkg/config"
	"github.com/liora-cosmetic/liora/pkg/logger"
)

const (
	HeaderRequestID = "X-Request-ID"
	// maxUnpagedSize is the page size requested when lists page locally
	maxUnpagedSize = 2000
	// maxUnpagedPages bounds the pages walked to assemble a local collection
	maxUnpagedPages = 50
)

// Client provides access to the Liora back-office REST API.
type Client struct {
	http           *resty.Client
	baseURL        string
	loc            *time.Location
	zeroBasedPages bool
	loginPath      string

	Orders   *Resource[Order]
	Products *Resource[Product]
	Users    *Resource[User]
}

// NewClient creates a client for cfg. An empty token sends no Authorization header.
func NewClient(ctx context.Context, cfg *config.Config, token string) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	baseURL, err := validateBaseURL(cfg.API.BaseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		http:           buildHTTPClient(ctx, &cfg.API, baseURL, token),
		baseURL:        baseURL,
		loc:            cfg.Lists.Location(),
		zeroBasedPages: cfg.API.ZeroBasedPages,
		loginPath:      cfg.API.Endpoints.Login,
	}
	size, ttl := cfg.API.DetailCacheSize, cfg.API.DetailCacheTTL
	c.Orders = newResource(c, "orders", cfg.API.Endpoints.Orders, decodeOrder, size, ttl)
	c.Products = newResource(c, "products", cfg.API.Endpoints.Products, decodeProduct, size, ttl)
	c.Users = newResource(c, "users", cfg.API.Endpoints.Users, decodeUser, size, ttl)
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Location() *time.Location {
	return c.loc
}

// validateBaseURL requires an absolute http(s) URL and strips a trailing slash
func validateBaseURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("base URL must be absolute, got: %s", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("base URL scheme must be http or https, got: %s", parsed.Scheme)
	}
	return strings.TrimRight(raw, "/"), nil
}

func buildHTTPClient(ctx context.Context, cfg *config.APIConfig, baseURL, token string) *resty.Client {
	log := logger.FromContext(ctx)
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(4 * cfg.RetryWait).
		SetLogger(restyLogger{log: log})
	if token != "" {
		client.SetAuthToken(token)
	}
	client.AddRetryCondition(retryCondition)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if req.Header.Get(HeaderRequestID) == "" {
			req.SetHeader(HeaderRequestID, uuid.NewString())
		}
		return nil
	})
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		log.Debug("API request completed",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"request_id", resp.Request.Header.Get(HeaderRequestID),
			"duration", resp.Time(),
		)
		return nil
	})
	return client
}

// retryCondition retries transport failures and transient server statuses
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= http.StatusInternalServerError ||
		code == http.StatusTooManyRequests ||
		code == http.StatusRequestTimeout
}

// restyLogger routes resty diagnostics to the structured logger
type restyLogger struct {
	log logger.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.log.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
