// Package main implements the txclient CLI, a command line client for FHIR
// terminology servers.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
