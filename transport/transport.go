// Package transport performs the HTTP GET requests of a terminology client.
//
// A transport is configured once from an immutable Config. The proxy
// settings are snapshotted from the environment when the Config is built,
// so later changes to HTTP_PROXY and friends do not affect an existing
// transport.
package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http/httpproxy"
)

const (
	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize = 32 << 20

	// RequestIDHeader carries a fresh id on every request.
	RequestIDHeader = "X-Request-Id"
)

// ErrBodyTooLarge is returned when a response exceeds Config.MaxBodySize.
var ErrBodyTooLarge = errors.New("response body too large")

// Transport sends a GET request and returns the raw response.
type Transport interface {
	Get(ctx context.Context, url string) (*Response, error)
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
	Duration   time.Duration
}

// OK reports whether the status code is in [200, 300).
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Config is the immutable transport configuration. It is passed by value.
type Config struct {
	// Client certificate. An empty KeyFile means CertFile is a combined PEM.
	CertFile string
	KeyFile  string

	// Timeout bounds one request including reading the body. Zero disables it.
	Timeout time.Duration

	UserAgent string
	Accept    string

	// Proxy is the proxy snapshot. Build it with ProxyFromEnvironment.
	Proxy httpproxy.Config

	// MaxBodySize defaults to DefaultMaxBodySize when zero.
	MaxBodySize int64
}

// ProxyFromEnvironment snapshots HTTP_PROXY, HTTPS_PROXY and NO_PROXY
// (and their lower-case forms).
func ProxyFromEnvironment() httpproxy.Config {
	return *httpproxy.FromEnvironment()
}

// HasProxy reports whether the snapshot routes any traffic through a proxy.
func (c Config) HasProxy() bool {
	return c.Proxy.HTTPProxy != "" || c.Proxy.HTTPSProxy != ""
}

// HTTP is a Transport backed by net/http. It is safe for concurrent use.
type HTTP struct {
	client *http.Client
	cfg    Config
}

// NewHTTP builds an HTTP transport. It fails if the client certificate
// cannot be loaded.
func NewHTTP(cfg Config) (*HTTP, error) {
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}

	base := http.DefaultTransport.(*http.Transport).Clone()

	proxyFunc := cfg.Proxy.ProxyFunc()
	base.Proxy = func(req *http.Request) (*url.URL, error) {
		return proxyFunc(req.URL)
	}

	if cfg.CertFile != "" {
		keyFile := cfg.KeyFile
		if keyFile == "" {
			keyFile = cfg.CertFile
		}
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("loading client certificate %s: %w", cfg.CertFile, err)
		}
		base.TLSClientConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	return &HTTP{
		client: &http.Client{Transport: base, Timeout: cfg.Timeout},
		cfg:    cfg,
	}, nil
}

// Config returns a copy of the transport configuration.
func (t *HTTP) Config() Config {
	return t.cfg
}

// Get sends a GET request to url and reads the whole body.
func (t *HTTP) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)
	if t.cfg.Accept != "" {
		req.Header.Set("Accept", t.cfg.Accept)
	}
	if t.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", t.cfg.UserAgent)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.cfg.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > t.cfg.MaxBodySize {
		return nil, ErrBodyTooLarge
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		RequestID:  id,
		Duration:   time.Since(start),
	}, nil
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}
