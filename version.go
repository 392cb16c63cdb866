package txclient

import "fmt"

// Version is the client release, reported in the User-Agent header.
const Version = "0.3.0"

// FHIRVersion represents a FHIR specification version.
type FHIRVersion string

// Supported FHIR versions.
const (
	// R4 is FHIR Release 4 (4.0.1)
	R4 FHIRVersion = "R4"
	// R4B is FHIR Release 4B (4.3.0)
	R4B FHIRVersion = "R4B"
	// R5 is FHIR Release 5 (5.0.0)
	R5 FHIRVersion = "R5"
)

// String returns the version string.
func (v FHIRVersion) String() string {
	return string(v)
}

// IsValid returns true if this is a supported FHIR version.
func (v FHIRVersion) IsValid() bool {
	_, ok := versionConfigs[v]
	return ok
}

// versionConfig holds version-specific wire settings.
type versionConfig struct {
	// FHIRVersionString is the full release number
	FHIRVersionString string

	// MimeVersion is the value of the fhirVersion MIME parameter
	MimeVersion string
}

var versionConfigs = map[FHIRVersion]versionConfig{
	R4:  {FHIRVersionString: "4.0.1", MimeVersion: "4.0"},
	R4B: {FHIRVersionString: "4.3.0", MimeVersion: "4.3"},
	R5:  {FHIRVersionString: "5.0.0", MimeVersion: "5.0"},
}

// Decodable reports whether the client decodes responses of this version.
// Only R4 is decoded; R4B and R5 are known for media types alone.
func (v FHIRVersion) Decodable() bool {
	return v == R4
}

// Release returns the full release number, e.g. "4.0.1".
func (v FHIRVersion) Release() string {
	return versionConfigs[v].FHIRVersionString
}

// MediaType returns the Accept header value for JSON requests against a
// server of this version. Unknown versions fall back to the bare media type.
func (v FHIRVersion) MediaType() string {
	cfg, ok := versionConfigs[v]
	if !ok {
		return "application/fhir+json"
	}
	return fmt.Sprintf("application/fhir+json; fhirVersion=%s", cfg.MimeVersion)
}
