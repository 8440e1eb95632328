// Package webapi is the HTTP collaborator used to probe submitted
// sites: it fetches well-known set declarations and the robots.txt,
// ads.txt and root resources the service site policy checks look at.
//
// Every request carries a bounded timeout, and transport failures can
// be classified into the two classes the checkers care about: the
// expected signatures of an unreachable site, and everything else.
package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-resty/resty/v2"
)

// Config holds the probe settings. Defaults can be overridden from
// the environment.
type Config struct {
	// Timeout bounds every outbound request.
	Timeout time.Duration `env:"FPSTOOL_HTTP_TIMEOUT" envDefault:"10s"`
	// UserAgent is sent on every request. Well-known endpoints are
	// routinely gated on a browser-like identity.
	UserAgent string `env:"FPSTOOL_USER_AGENT" envDefault:"Chrome"`
	// Concurrency limits in-flight probes across all live checks.
	Concurrency int `env:"FPSTOOL_CONCURRENCY" envDefault:"16"`
}

// ConfigFromEnv returns the Config described by the environment,
// falling back to the defaults.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("reading fpstool environment: %w", err)
	}
	return cfg, nil
}

// Client issues the outbound probes for the live checks.
type Client struct {
	http *resty.Client

	// Concurrency is the probe limit the checkers should apply.
	Concurrency int
}

// New returns a Client for the given Config. Zero fields fall back to
// the Config defaults.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Chrome"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 16
	}
	cli := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent)
	return &Client{http: cli, Concurrency: cfg.Concurrency}
}

// Response is the outcome of a Get: the final status, the response
// headers, and the URL the request ended up at after redirects.
type Response struct {
	StatusCode int
	Header     http.Header
	FinalURL   string
}

// Succeeded reports whether the response carries a 2xx status.
func (r *Response) Succeeded() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get fetches url, following redirects. A non-2xx status is not an
// error; callers decide what the status means for their check.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	final := url
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		final = raw.Request.URL.String()
	}
	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		FinalURL:   final,
	}, nil
}

// JSON fetches url and decodes its body into out. Any non-2xx status
// or undecodable body is an error, since the caller asked for a
// structured document.
func (c *Client) JSON(ctx context.Context, url string, out any) error {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return err
	}
	if sc := resp.StatusCode(); sc < 200 || sc >= 300 {
		return fmt.Errorf("unexpected status %d fetching %s", sc, url)
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("parsing document at %s: %w", url, err)
	}
	return nil
}

// ExpectedUnreachable reports whether err matches the failure
// signatures of a site that is simply not reachable: a timeout, a DNS
// failure, or a refused or reset connection. The service site policy
// checks treat these as benign, since an unreachable service site is a
// valid outcome; any other failure is worth reporting.
func ExpectedUnreachable(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}
