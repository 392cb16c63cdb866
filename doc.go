// Package txclient is a client for FHIR terminology servers.
//
// It issues GET requests against a server endpoint, decodes the JSON
// responses into typed R4 resources, and implements the CodeSystem
// $validate-code lookup used to check a (system, code) pair and fetch its
// display text.
//
// # Quick Start
//
//	import (
//	    tx "github.com/gofhir/txclient"
//	    "github.com/gofhir/txclient/client"
//	)
//
//	c, err := client.New(
//	    tx.WithEndpoint("https://tx.example.org/fhir"),
//	    tx.WithCertificate("dfn.pem", ""),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := c.LookupCodeDisplay(ctx, "http://snomed.info/sct", "55607006")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if res.Valid {
//	    fmt.Println(res.Display)
//	}
//
// # Packages
//
//   - client: URL building, typed fetch, Parameters extraction, $validate-code
//   - codec: JSON to R4 decoding with normalization and required-element checks
//   - transport: HTTP transport with client certificate and proxy snapshot
//   - input: validators for interactively entered systems, codes and values
//   - extract: FHIRPath evaluation over fetched resources
//
// # Errors
//
// Every failure is one of *TransportError, *RequestError, *ParseError or
// *ProtocolError. None are retried.
package txclient
