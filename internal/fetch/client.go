package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/morikuni/failure/v2"
	"github.com/motemen/go-loghttp"

	"github.com/five82/sitelist/internal/logger"
)

const (
	defaultUserAgent = "sitelist/dev"
	defaultTimeout   = 15 * time.Second
)

// Client performs the single GET against the website list source.
type Client struct {
	endpoint    *url.URL
	endpointErr error
	http        *http.Client
	userAgent   string
}

// ClientOptions configure NewClient. Zero values use defaults.
type ClientOptions struct {
	Timeout   time.Duration
	UserAgent string
	Transport http.RoundTripper
	Logger    logger.Logger
}

// NewClient builds a client for endpoint. A malformed endpoint does not fail
// construction; every Get then reports ErrInvalidEndpoint without any I/O.
func NewClient(endpoint string, opts ClientOptions) *Client {
	u, err := ParseEndpoint(endpoint)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		endpoint:    u,
		endpointErr: err,
		http: &http.Client{
			Timeout:   timeout,
			Transport: loggingTransport(opts.Transport, log),
		},
		userAgent: userAgent,
	}
}

// Endpoint returns the parsed source URL, or "" when it was invalid.
func (c *Client) Endpoint() string {
	if c == nil || c.endpoint == nil {
		return ""
	}
	return c.endpoint.String()
}

// Get downloads the raw body. Errors carry ErrInvalidEndpoint, ErrTransport
// or ErrHTTPStatus.
func (c *Client) Get(ctx context.Context) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if c.endpointErr != nil {
		return nil, c.endpointErr
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.String(), nil)
	if err != nil {
		return nil, failure.New(ErrInvalidEndpoint,
			failure.Message("Cannot build request for endpoint"),
			failure.Context{"endpoint": c.endpoint.String(), "error": err.Error()},
		)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, failure.New(ErrTransport,
			failure.Message("Website list source is unreachable"),
			failure.Context{"endpoint": c.endpoint.String(), "error": err.Error()},
		)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, failure.New(ErrHTTPStatus,
			failure.Message(fmt.Sprintf("Website list source returned status %d", resp.StatusCode)),
			failure.Context{"endpoint": c.endpoint.String(), "status": resp.Status},
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, failure.New(ErrTransport,
			failure.Message("Reading the website list was interrupted"),
			failure.Context{"endpoint": c.endpoint.String(), "error": err.Error()},
		)
	}
	return body, nil
}

// ParseEndpoint accepts only absolute http and https URLs with a host.
func ParseEndpoint(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	invalid := func(reason string) error {
		return failure.New(ErrInvalidEndpoint,
			failure.Message("Website list endpoint is not a valid http(s) URL"),
			failure.Context{"endpoint": raw, "reason": reason},
		)
	}
	if trimmed == "" {
		return nil, invalid("empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, invalid(err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, invalid(fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return nil, invalid("missing host")
	}
	return u, nil
}

func loggingTransport(base http.RoundTripper, log logger.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &loghttp.Transport{
		Transport: base,
		LogRequest: func(req *http.Request) {
			log.Debug("http request",
				logger.String("method", req.Method),
				logger.String("url", req.URL.String()),
			)
		},
		LogResponse: func(resp *http.Response) {
			fields := []logger.Field{
				logger.Int("status_code", resp.StatusCode),
				logger.String("content_type", resp.Header.Get("Content-Type")),
			}
			if resp.Request != nil {
				fields = append(fields, logger.String("url", resp.Request.URL.String()))
			}
			log.Debug("http response", fields...)
		},
	}
}
