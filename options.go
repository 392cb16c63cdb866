package txclient

import (
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client.
type Option func(*Options)

// Options holds all configuration for a Client. It is assembled once at
// construction and never mutated afterwards.
type Options struct {
	// Endpoint is the base URL of the terminology server.
	Endpoint string

	// Client certificate. KeyFile may be empty when CertFile holds both
	// the certificate and the private key.
	CertFile string
	KeyFile  string

	// Verbose logs every request URL before it is sent.
	Verbose bool

	// EscapeQuery percent-encodes operation query values.
	EscapeQuery bool

	// Timeout bounds a single request. Zero disables the timeout.
	Timeout time.Duration

	// Wire settings
	FHIRVersion FHIRVersion
	UserAgent   string

	// Observability
	Logger  *zerolog.Logger
	Metrics *Metrics
}

const (
	// DefaultEndpoint is the HiGHmed terminology server.
	DefaultEndpoint = "https://terminology-highmed.medic.medfak.uni-koeln.de/fhir"

	// DefaultCertFile is picked up by the CLI when present in the working directory.
	DefaultCertFile = "dfn.pem"

	// DefaultTimeout for a single request.
	DefaultTimeout = 30 * time.Second
)

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		Endpoint:    DefaultEndpoint,
		Verbose:     true,
		EscapeQuery: true,
		Timeout:     DefaultTimeout,
		FHIRVersion: R4,
		UserAgent:   "txclient/" + Version,
	}
}

// Apply applies opts on top of the defaults.
func Apply(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithEndpoint sets the terminology server base URL.
func WithEndpoint(endpoint string) Option {
	return func(o *Options) {
		o.Endpoint = endpoint
	}
}

// WithCertificate sets the client certificate. keyFile may be empty if
// certFile is a combined PEM.
func WithCertificate(certFile, keyFile string) Option {
	return func(o *Options) {
		o.CertFile = certFile
		o.KeyFile = keyFile
	}
}

// WithVerbose toggles logging of request URLs.
func WithVerbose(enable bool) Option {
	return func(o *Options) {
		o.Verbose = enable
	}
}

// WithEscapeQuery toggles percent-encoding of operation query values.
// Disable only when byte-for-byte request compatibility is needed.
func WithEscapeQuery(enable bool) Option {
	return func(o *Options) {
		o.EscapeQuery = enable
	}
}

// WithTimeout sets the per-request timeout. Use 0 for no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout >= 0 {
			o.Timeout = timeout
		}
	}
}

// WithFHIRVersion sets the FHIR version advertised in the Accept header.
// Responses are decoded into R4 structures, so only versions the client can
// decode are accepted; any other version is ignored.
func WithFHIRVersion(v FHIRVersion) Option {
	return func(o *Options) {
		if v.Decodable() {
			o.FHIRVersion = v
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *Options) {
		if ua != "" {
			o.UserAgent = ua
		}
	}
}

// WithLogger sets the logger used by the client.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = &l
	}
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// QuietOptions returns options for scripted use: no URL logging.
func QuietOptions() []Option {
	return []Option{
		WithVerbose(false),
	}
}
