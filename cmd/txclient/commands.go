package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gofhir/fhir/r4"
	"github.com/spf13/cobra"

	tx "github.com/gofhir/txclient"
	"github.com/gofhir/txclient/client"
	"github.com/gofhir/txclient/extract"
	"github.com/gofhir/txclient/input"
	"github.com/gofhir/txclient/worker"
)

// fetchers decode a path as one of the supported resource types. The empty
// name accepts any resource.
var fetchers = map[string]func(context.Context, *client.Client, string) (any, error){
	"":                    fetchAs[map[string]any],
	"Bundle":              fetchAs[r4.Bundle],
	"Parameters":          fetchAs[r4.Parameters],
	"CodeSystem":          fetchAs[r4.CodeSystem],
	"ValueSet":            fetchAs[r4.ValueSet],
	"ConceptMap":          fetchAs[r4.ConceptMap],
	"OperationOutcome":    fetchAs[r4.OperationOutcome],
	"CapabilityStatement": fetchAs[r4.CapabilityStatement],
	"NamingSystem":        fetchAs[r4.NamingSystem],
}

func fetchAs[T any](ctx context.Context, c *client.Client, path string) (any, error) {
	return client.Fetch[T](ctx, c, path)
}

func lookupCmd(a *app) *cobra.Command {
	var (
		version string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "lookup <system> <code>...",
		Short: "Validate codes with CodeSystem/$validate-code and print their display",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			system, codes := args[0], args[1:]
			if err := input.CodeSystemURL().Validate(system).Err(); err != nil {
				return fmt.Errorf("system: %w", err)
			}
			for _, code := range codes {
				if err := input.Code().Validate(code).Err(); err != nil {
					return fmt.Errorf("code %q: %w", code, err)
				}
			}

			c, err := a.Client()
			if err != nil {
				return err
			}
			var opts []client.LookupOption
			if cmd.Flags().Changed("version") {
				opts = append(opts, client.WithVersion(version))
			}

			if len(codes) == 1 {
				res, err := c.LookupCodeDisplay(cmd.Context(), system, codes[0], opts...)
				if err != nil {
					return describe(a, err)
				}
				return a.out.print(res, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, lookupText(res))
					return err
				})
			}
			return lookupMany(cmd.Context(), a, c, system, codes, workers, opts)
		},
	}
	cmd.Flags().StringVar(&version, "version", "", "code system version")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "parallel requests when several codes are given")
	return cmd
}

type lookupRow struct {
	tx.LookupResult
	Error string `json:"error,omitempty"`
}

func lookupMany(ctx context.Context, a *app, c *client.Client, system string, codes []string, workers int, opts []client.LookupOption) error {
	results := c.LookupCodeDisplays(ctx, system, codes, workers, opts...)

	rows := make([]lookupRow, len(results))
	for i, r := range results {
		rows[i] = lookupRow{LookupResult: r.Value}
		if r.Err != nil {
			_ = describe(a, r.Err)
			rows[i] = lookupRow{LookupResult: tx.LookupResult{System: system, Code: codes[i]}, Error: r.Err.Error()}
		}
	}

	err := a.out.print(rows, func(w io.Writer) error {
		for _, row := range rows {
			text := lookupText(row.LookupResult)
			if row.Error != "" {
				text = "error: " + row.Error
			}
			if _, err := fmt.Fprintf(w, "%s\t%s\n", row.Code, text); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s := worker.Summarize(results); s.Failed > 0 || s.Completed < s.Total {
		return fmt.Errorf("%d of %d lookups failed", s.Total-s.Completed+s.Failed, s.Total)
	}
	return nil
}

func lookupText(res tx.LookupResult) string {
	if res.Valid {
		return res.Display
	}
	return "invalid: " + res.Reason()
}

func getCmd(a *app) *cobra.Command {
	var resourceType, expr string

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Fetch a path relative to the endpoint and print the resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetch, ok := fetchers[resourceType]
			if !ok {
				return fmt.Errorf("unsupported resource type %q", resourceType)
			}
			c, err := a.Client()
			if err != nil {
				return err
			}
			res, err := fetch(cmd.Context(), c, args[0])
			if err != nil {
				return describe(a, err)
			}

			if expr == "" {
				return a.out.print(res, nil)
			}
			values, err := extract.NewEvaluator(0).Strings(res, expr)
			if err != nil {
				return err
			}
			return a.out.print(values, func(w io.Writer) error {
				for _, v := range values {
					if _, err := fmt.Fprintln(w, v); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&resourceType, "type", "t", "", "expected resource type, e.g. ValueSet")
	cmd.Flags().StringVarP(&expr, "expr", "e", "", "FHIRPath expression to evaluate on the resource")
	return cmd
}

func bundleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bundle <path>",
		Short: "Fetch a search Bundle and list its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.Client()
			if err != nil {
				return err
			}
			b, err := c.FetchBundle(cmd.Context(), args[0])
			if err != nil {
				return describe(a, err)
			}
			return a.out.print(b, func(w io.Writer) error {
				if _, err := fmt.Fprintf(w, "%d entries\n", len(b.Entry)); err != nil {
					return err
				}
				for _, e := range b.Entry {
					if e.FullUrl == nil {
						continue
					}
					if _, err := fmt.Fprintf(w, "  %s\n", *e.FullUrl); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func metadataCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata",
		Short: "Fetch the server CapabilityStatement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.Client()
			if err != nil {
				return err
			}
			cs, err := c.Capabilities(cmd.Context())
			if err != nil {
				return describe(a, err)
			}
			return a.out.print(cs, nil)
		},
	}
}

func checkValueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check-value <type> <value>",
		Short: "Check a value against a FHIR data type without contacting the server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := input.ValueType(args[0]).Validate(args[1])
			if !out.OK {
				return out.Err()
			}
			return a.out.print(map[string]any{"type": args[0], "value": args[1], "valid": true}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, "ok")
				return err
			})
		},
	}
}

// describe logs the cause of a parse error, which its message omits.
func describe(a *app, err error) error {
	var pe *tx.ParseError
	if errors.As(err, &pe) {
		a.log.Error().Str("url", pe.URL).Str("cause", pe.Detail()).Msg("unusable response")
	}
	return err
}
