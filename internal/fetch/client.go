// Package fetch is the shared outbound HTTP client: every request carries the
// identifying User-Agent, a timeout, a body cap and a per-host rate limit.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxBodyBytes = 5 << 20 // 5MB
)

var ErrStatus = errors.New("unexpected status")

type Options struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	// HostRPS is the per-host request rate; <= 0 disables limiting.
	HostRPS float64
}

type Client struct {
	http      *http.Client
	userAgent string
	maxBody   int64
	hostRPS   float64

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Client{
		http:      &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
		maxBody:   opts.MaxBodyBytes,
		hostRPS:   opts.HostRPS,
		limiters:  make(map[string]*rate.Limiter),
	}
}

func (c *Client) UserAgent() string { return c.userAgent }

func (c *Client) Timeout() time.Duration { return c.http.Timeout }

func (c *Client) limiter(host string) *rate.Limiter {
	if c.hostRPS <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(c.hostRPS), 1)
		c.limiters[host] = l
	}
	return l
}

// Get downloads rawURL and returns at most MaxBodyBytes of the body.
// Non-2xx responses return an error wrapping ErrStatus.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if l := c.limiter(u.Host); l != nil {
		if err := l.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit %s: %w", u.Host, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: %w %d", rawURL, ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	return body, nil
}
