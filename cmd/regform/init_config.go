package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-regform/internal/config"
)

func (a *app) initConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default configuration file",
		Args:  cobra.MaximumNArgs(1),
		// Skips loading so a broken file can be replaced.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultFile
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}
