package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgopenapi "github.com/goliatone/go-regform/pkg/openapi"
)

func (a *app) schemaCmd() *cobra.Command {
	var format, serverURL string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the OpenAPI document for the registration API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := pkgopenapi.DefaultOptions()
			if serverURL != "" {
				opts.ServerURL = serverURL
			}
			doc, err := pkgopenapi.Build(cmd.Context(), a.schema(), opts)
			if err != nil {
				return err
			}

			var payload []byte
			switch format {
			case "json":
				payload, err = pkgopenapi.MarshalJSON(doc)
			case "yaml", "yml":
				payload, err = pkgopenapi.MarshalYAML(doc)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(payload)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "document format: json or yaml")
	cmd.Flags().StringVar(&serverURL, "server-url", "", "server URL advertised in the document")
	return cmd
}
