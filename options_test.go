package txclient

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Endpoint != DefaultEndpoint {
		t.Errorf("Endpoint = %q; want %q", opts.Endpoint, DefaultEndpoint)
	}
	if opts.Verbose != true {
		t.Error("Verbose should be true by default")
	}
	if opts.EscapeQuery != true {
		t.Error("EscapeQuery should be true by default")
	}
	if opts.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v; want %v", opts.Timeout, DefaultTimeout)
	}
	if opts.FHIRVersion != R4 {
		t.Errorf("FHIRVersion = %v; want R4", opts.FHIRVersion)
	}
	if opts.UserAgent != "txclient/"+Version {
		t.Errorf("UserAgent = %q; want %q", opts.UserAgent, "txclient/"+Version)
	}
	if opts.CertFile != "" || opts.KeyFile != "" {
		t.Error("no certificate should be configured by default")
	}
	if opts.Logger != nil || opts.Metrics != nil {
		t.Error("Logger and Metrics should be nil by default")
	}
}

func TestWithEndpoint(t *testing.T) {
	opts := Apply(WithEndpoint("https://tx.example.org/fhir/"))
	if opts.Endpoint != "https://tx.example.org/fhir/" {
		t.Errorf("Endpoint = %q", opts.Endpoint)
	}
}

func TestWithCertificate(t *testing.T) {
	opts := Apply(WithCertificate("client.pem", "client.key"))
	if opts.CertFile != "client.pem" {
		t.Errorf("CertFile = %q; want client.pem", opts.CertFile)
	}
	if opts.KeyFile != "client.key" {
		t.Errorf("KeyFile = %q; want client.key", opts.KeyFile)
	}
}

func TestWithVerbose(t *testing.T) {
	opts := Apply(WithVerbose(false))
	if opts.Verbose {
		t.Error("Verbose should be false")
	}
}

func TestWithEscapeQuery(t *testing.T) {
	opts := Apply(WithEscapeQuery(false))
	if opts.EscapeQuery {
		t.Error("EscapeQuery should be false")
	}
}

func TestWithTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"positive", 5 * time.Second, 5 * time.Second},
		{"zero disables", 0, 0},
		{"negative ignored", -time.Second, DefaultTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Apply(WithTimeout(tt.timeout))
			if opts.Timeout != tt.want {
				t.Errorf("Timeout = %v; want %v", opts.Timeout, tt.want)
			}
		})
	}
}

func TestWithFHIRVersion(t *testing.T) {
	if opts := Apply(WithFHIRVersion(R4)); opts.FHIRVersion != R4 {
		t.Errorf("FHIRVersion = %v; want R4", opts.FHIRVersion)
	}
	for _, v := range []FHIRVersion{R4B, R5} {
		if opts := Apply(WithFHIRVersion(v)); opts.FHIRVersion != R4 {
			t.Errorf("WithFHIRVersion(%s): FHIRVersion = %v; want R4, responses decode as R4 only", v, opts.FHIRVersion)
		}
	}
	if opts := Apply(WithFHIRVersion("R2")); opts.FHIRVersion != R4 {
		t.Errorf("invalid version should be ignored, got %v", opts.FHIRVersion)
	}
}

func TestWithUserAgent(t *testing.T) {
	if opts := Apply(WithUserAgent("txclient-test/1")); opts.UserAgent != "txclient-test/1" {
		t.Errorf("UserAgent = %q; want txclient-test/1", opts.UserAgent)
	}
	if opts := Apply(WithUserAgent("")); opts.UserAgent != "txclient/"+Version {
		t.Errorf("empty user agent should be ignored, got %q", opts.UserAgent)
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	opts := Apply(WithLogger(zerolog.New(&buf)))
	if opts.Logger == nil {
		t.Fatal("Logger should be set")
	}
	opts.Logger.Info().Msg("hello")
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Errorf("logger output = %q; want it to contain hello", buf.String())
	}
}

func TestWithMetrics(t *testing.T) {
	m := NewMetrics()
	if opts := Apply(WithMetrics(m)); opts.Metrics != m {
		t.Error("Metrics should be the provided instance")
	}
}

func TestQuietOptions(t *testing.T) {
	opts := Apply(QuietOptions()...)
	if opts.Verbose {
		t.Error("QuietOptions should disable Verbose")
	}
}

func TestOptionsCombination(t *testing.T) {
	opts := Apply(
		WithEndpoint("http://localhost:8080/fhir"),
		WithVerbose(false),
		WithTimeout(2*time.Second),
		WithEscapeQuery(false),
	)

	if opts.Endpoint != "http://localhost:8080/fhir" {
		t.Errorf("Endpoint = %q", opts.Endpoint)
	}
	if opts.Verbose || opts.EscapeQuery {
		t.Error("Verbose and EscapeQuery should be false")
	}
	if opts.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v; want 2s", opts.Timeout)
	}
	if opts.FHIRVersion != R4 {
		t.Errorf("FHIRVersion = %v; want R4 (unchanged)", opts.FHIRVersion)
	}
}
