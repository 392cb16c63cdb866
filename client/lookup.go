package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/gofhir/fhir/r4"

	tx "github.com/gofhir/txclient"
	"github.com/gofhir/txclient/worker"
)

// OperationValidateCode is the CodeSystem operation used by LookupCodeDisplay.
const OperationValidateCode = "$validate-code"

// LookupOption configures a single lookup.
type LookupOption func(*lookupConfig)

type lookupConfig struct {
	version    string
	hasVersion bool
}

// WithVersion adds the code system version to the request. The parameter
// is sent whenever this option is given, even for an empty version.
func WithVersion(version string) LookupOption {
	return func(c *lookupConfig) {
		c.version = version
		c.hasVersion = true
	}
}

// LookupCodeDisplay asks the server whether code exists in the code system
// system and returns its display text if it does.
//
// An invalid code is not an error: the result has Valid false and the
// server's message, if any. A response without a boolean "result", or a
// valid response without a "display", fails with *txclient.ProtocolError.
func (c *Client) LookupCodeDisplay(ctx context.Context, system, code string, opts ...LookupOption) (tx.LookupResult, error) {
	var cfg lookupConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	target := BuildURL(c.opts.Endpoint, c.validateCodePath(system, code, cfg))
	params, err := FetchURL[r4.Parameters](ctx, c, target)
	if err != nil {
		return tx.LookupResult{}, err
	}

	valid, ok := ParameterBool(params, "result")
	if !ok {
		c.metrics.RecordProtocolViolation()
		return tx.LookupResult{}, &tx.ProtocolError{Operation: OperationValidateCode, Parameter: "result", URL: target}
	}

	var res tx.LookupResult
	if valid {
		display, ok := ParameterString(params, "display")
		if !ok {
			c.metrics.RecordProtocolViolation()
			return tx.LookupResult{}, &tx.ProtocolError{Operation: OperationValidateCode, Parameter: "display", URL: target}
		}
		res = tx.ValidResult(display)
	} else {
		message, _ := ParameterString(params, "message")
		res = tx.InvalidResult(message)
		c.log.Warn().Str("system", system).Str("code", code).Msg(res.Reason())
	}
	c.metrics.RecordLookup(valid)

	res.System = system
	res.Code = code
	res.Version = cfg.version
	return res, nil
}

// validateCodePath builds CodeSystem/$validate-code?url=..&code=..[&version=..].
// Query values are escaped unless EscapeQuery is off.
func (c *Client) validateCodePath(system, code string, cfg lookupConfig) string {
	var b strings.Builder
	b.WriteString("CodeSystem/")
	b.WriteString(OperationValidateCode)
	b.WriteString("?url=")
	b.WriteString(c.queryValue(system))
	b.WriteString("&code=")
	b.WriteString(c.queryValue(code))
	if cfg.hasVersion {
		b.WriteString("&version=")
		b.WriteString(c.queryValue(cfg.version))
	}
	return b.String()
}

func (c *Client) queryValue(v string) string {
	if c.opts.EscapeQuery {
		return url.QueryEscape(v)
	}
	return v
}

// LookupCodeDisplays looks up several codes of one code system in parallel,
// with at most workers requests in flight. Results are in the order of codes.
func (c *Client) LookupCodeDisplays(ctx context.Context, system string, codes []string, workers int, opts ...LookupOption) []worker.Result[tx.LookupResult] {
	return worker.Run(ctx, codes, workers, func(ctx context.Context, code string) (tx.LookupResult, error) {
		return c.LookupCodeDisplay(ctx, system, code, opts...)
	})
}
