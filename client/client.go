// Package client talks to a FHIR terminology server.
//
// A Client is built once from txclient options and is safe for concurrent
// use. Responses are decoded into typed R4 resources from
// github.com/gofhir/fhir/r4.
package client

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	tx "github.com/gofhir/txclient"
	"github.com/gofhir/txclient/pkg/logger"
	"github.com/gofhir/txclient/transport"
)

// Client is a FHIR terminology server client.
type Client struct {
	opts      tx.Options
	transport transport.Transport
	log       zerolog.Logger
	metrics   *tx.Metrics
}

// New creates a Client with an HTTP transport. Proxy settings are read from
// the environment once, here.
func New(opts ...tx.Option) (*Client, error) {
	o := tx.Apply(opts...)

	cfg := transport.Config{
		CertFile:  o.CertFile,
		KeyFile:   o.KeyFile,
		Timeout:   o.Timeout,
		UserAgent: o.UserAgent,
		Accept:    o.FHIRVersion.MediaType(),
		Proxy:     transport.ProxyFromEnvironment(),
	}
	t, err := transport.NewHTTP(cfg)
	if err != nil {
		return nil, err
	}

	c := newClient(o, t)
	if cfg.HasProxy() {
		c.log.Info().
			Str("http_proxy", cfg.Proxy.HTTPProxy).
			Str("https_proxy", cfg.Proxy.HTTPSProxy).
			Str("no_proxy", cfg.Proxy.NoProxy).
			Msg("Using proxies")
	}
	return c, nil
}

// NewWithTransport creates a Client that sends requests through t.
func NewWithTransport(t transport.Transport, opts ...tx.Option) *Client {
	return newClient(tx.Apply(opts...), t)
}

func newClient(o *tx.Options, t transport.Transport) *Client {
	opts := *o
	opts.Endpoint = strings.TrimRight(opts.Endpoint, "/")

	c := &Client{
		opts:      opts,
		transport: t,
		metrics:   o.Metrics,
	}
	if o.Logger != nil {
		c.log = *o.Logger
	} else {
		c.log = logger.Default()
	}
	if c.metrics == nil {
		c.metrics = tx.NewMetrics()
	}
	return c
}

// Endpoint returns the server base URL.
func (c *Client) Endpoint() string {
	return c.opts.Endpoint
}

// Metrics returns the client's metrics collector.
func (c *Client) Metrics() *tx.Metrics {
	return c.metrics
}

// BuildURL joins endpoint and path with exactly one slash. All trailing
// slashes are removed from endpoint and all leading slashes from path.
// Nothing is escaped.
func BuildURL(endpoint, path string) string {
	endpoint = strings.TrimRight(endpoint, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", endpoint, path)
}
