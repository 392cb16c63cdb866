package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/gofhir/fhir/r4"

	tx "github.com/gofhir/txclient"
	"github.com/gofhir/txclient/codec"
	"github.com/gofhir/txclient/transport"
)

// FetchURL sends a GET request to target and decodes the body as T.
//
// A failed request returns *txclient.TransportError, a timeout or a status
// outside [200, 300) returns *txclient.RequestError, and a body that does
// not decode as T returns *txclient.ParseError. Nothing is retried.
func FetchURL[T any](ctx context.Context, c *Client, target string) (*T, error) {
	body, err := c.get(ctx, target)
	if err != nil {
		return nil, err
	}

	res, err := codec.DecodeBytes[T](body)
	if err != nil {
		c.metrics.RecordParseError()
		c.log.Debug().Err(err).Str("url", target).Msg("decoding response failed")

		perr := &tx.ParseError{URL: target, ResourceType: codec.ResourceTypeOf[T](), Err: err}
		var de *codec.DecodeError
		if errors.As(err, &de) {
			perr.Issues = de.Issues
		}
		return nil, perr
	}
	return res, nil
}

// Fetch is FetchURL for a path relative to the client endpoint.
func Fetch[T any](ctx context.Context, c *Client, path string) (*T, error) {
	return FetchURL[T](ctx, c, BuildURL(c.opts.Endpoint, path))
}

// Read fetches the instance {ResourceType}/{id}. T must be one of the
// resource types codec knows.
func Read[T any](ctx context.Context, c *Client, id string) (*T, error) {
	rt := codec.ResourceTypeOf[T]()
	if rt == "" {
		var zero T
		return nil, fmt.Errorf("read: unsupported resource type %T", zero)
	}
	if id == "" {
		return nil, fmt.Errorf("read %s: id is empty", rt)
	}
	return Fetch[T](ctx, c, rt+"/"+url.PathEscape(id))
}

// FetchBundle fetches path and decodes it as a Bundle.
func (c *Client) FetchBundle(ctx context.Context, path string) (*r4.Bundle, error) {
	return Fetch[r4.Bundle](ctx, c, path)
}

// Capabilities fetches the server's CapabilityStatement.
func (c *Client) Capabilities(ctx context.Context) (*r4.CapabilityStatement, error) {
	return Fetch[r4.CapabilityStatement](ctx, c, "metadata")
}

// get performs the request and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	if c.opts.Verbose {
		c.log.Info().Msgf("Requesting from %s", target)
	}

	resp, err := c.transport.Get(ctx, target)
	if err != nil {
		c.metrics.RecordTransportError()
		if transport.IsTimeout(err) {
			c.log.Debug().Err(err).Str("url", target).Msg("request timed out")
			return nil, &tx.RequestError{URL: target, Timeout: true, Err: err}
		}
		c.log.Debug().Err(err).Str("url", target).Msg("request failed")
		return nil, &tx.TransportError{URL: target, Err: err}
	}

	c.metrics.RecordRequest(resp.Duration, resp.StatusCode)
	c.log.Debug().
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("latency", resp.Duration).
		Str("request_id", resp.RequestID).
		Msg("response received")

	if !resp.OK() {
		return nil, &tx.RequestError{URL: target, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}
