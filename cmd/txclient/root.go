package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	tx "github.com/gofhir/txclient"
	"github.com/gofhir/txclient/client"
	"github.com/gofhir/txclient/pkg/logger"
)

// app is the state shared by the commands of one invocation.
type app struct {
	cfg     *Config
	log     zerolog.Logger
	metrics *tx.Metrics
	out     printer
	client  *client.Client
}

// Client builds the terminology client on first use.
func (a *app) Client() (*client.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	c, err := client.New(a.cfg.Options(a.log, a.metrics)...)
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	v := newViper()
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "txclient",
		Short:         "Query a FHIR terminology server",
		Version:       tx.Version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(v, cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = cfg.Logger()
			logger.SetDefault(a.log)
			a.metrics = tx.NewMetrics()
			a.out = printer{format: cfg.Output, w: cmd.OutOrStdout()}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg == nil || !a.cfg.Metrics {
				return nil
			}
			return printer{format: a.cfg.Output, w: cmd.ErrOrStderr()}.print(a.metrics.Snapshot(), func(w io.Writer) error {
				return writeMetricsText(w, a.metrics.Snapshot())
			})
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default ./txclient.yaml if present)")
	pf.String("endpoint", tx.DefaultEndpoint, "terminology server base URL")
	pf.String("cert", "", "client certificate PEM (default "+tx.DefaultCertFile+" if present)")
	pf.String("key", "", "client private key PEM (default: read from --cert)")
	pf.Bool("verbose", true, "log every request URL")
	pf.Duration("timeout", tx.DefaultTimeout, "per-request timeout, 0 for none")
	pf.Bool("escape-query", true, "percent-encode operation query values")
	pf.String("log-level", "info", "log level: debug, info, warn, error, disabled")
	pf.String("log-format", string(logger.FormatConsole), "log format: console or json")
	pf.StringP("output", "o", OutputText, "output format: text, json or yaml")
	pf.Bool("metrics", false, "print request metrics to stderr when done")

	rootCmd.AddCommand(lookupCmd(a))
	rootCmd.AddCommand(getCmd(a))
	rootCmd.AddCommand(bundleCmd(a))
	rootCmd.AddCommand(metadataCmd(a))
	rootCmd.AddCommand(checkValueCmd(a))

	return rootCmd
}

func writeMetricsText(w io.Writer, s tx.Snapshot) error {
	_, err := fmt.Fprintf(w, "Requests: %d (ok %d, failed %d, transport errors %d, parse errors %d)\n"+
		"Latency: avg %dns, min %dns, max %dns\n"+
		"Lookups: %d valid, %d invalid, %d protocol violations\n",
		s.RequestsTotal, s.RequestsOK, s.RequestErrors, s.TransportErrors, s.ParseErrors,
		s.AvgRequestTimeNs, s.MinRequestTimeNs, s.MaxRequestTimeNs,
		s.LookupsValid, s.LookupsInvalid, s.ProtocolViolations)
	return err
}
