// Package codec decodes terminology server responses into typed R4
// resources from github.com/gofhir/fhir/r4.
//
// Decoding a JSON object runs in this order:
//
//   - the resourceType is checked against the requested Go type
//   - Normalize patches known server omissions (a ValueSet without status)
//   - CheckRequired reports missing required elements
//   - Parameters get value[x] checks (one value, valid primitive format)
//   - the object is decoded into the r4 struct
//
// Any failure is a *DecodeError carrying the issues found.
//
// ValidateScalar checks a single value against a FHIR datatype without
// constructing a resource around it.
package codec
