package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-regform/components/birthdate"
)

func (a *app) optionsCmd() *cobra.Command {
	var minYear int
	cmd := &cobra.Command{
		Use:       "options <day|month|year>",
		Short:     "List the date-of-birth select options",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(birthdate.ListDay), string(birthdate.ListMonth), string(birthdate.ListYear)},
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := birthdate.ParseList(args[0])
			if err != nil {
				return err
			}
			opts, err := birthdate.ForList(list, a.now(), minYear)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, opt := range opts {
				fmt.Fprintf(tw, "%s\t%s\n", opt.Value, opt.Label)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&minYear, "min-year", birthdate.MinYear, "oldest year offered")
	return cmd
}
