package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-regform/pkg/registration"
)

var errInvalidRecord = errors.New("registration record is invalid")

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.json|->",
		Short: "Validate a JSON registration record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}

			data, err := registration.DecodeJSON(src)
			if err != nil {
				return err
			}
			result := a.schema().Validate(data)
			out := cmd.OutOrStdout()
			if result.Valid() {
				fmt.Fprintln(out, "valid")
				return nil
			}
			for _, path := range result.Errors.Paths() {
				for _, issue := range result.Errors.Get(path) {
					fmt.Fprintf(out, "%s: %s (%s)\n", path, issue.Message, issue.Code)
				}
			}
			return errInvalidRecord
		},
	}
}
