package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-regform/pkg/orchestrator"
	"github.com/goliatone/go-regform/pkg/renderers/tui"
)

func (a *app) promptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill the registration form in the terminal",
		Long: `Prompt for every field, re-asking until each value is valid, then print the
accepted record. Passwords are redacted in the output.`,
		Args: cobra.NoArgs,
		RunE: a.runPrompt,
	}
	cmd.Flags().StringP("output", "o", "", "output format: json, form or pretty")
	_ = a.v.BindPFlag("tui.output", cmd.Flags().Lookup("output"))
	return cmd
}

func (a *app) runPrompt(cmd *cobra.Command, _ []string) error {
	if a.driver == nil {
		a.driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
	}
	orch, err := a.orchestrator(a.schema())
	if err != nil {
		return err
	}

	out, err := orch.Generate(cmd.Context(), orchestrator.Request{Renderer: tui.Name})
	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintln(cmd.ErrOrStderr(), "registration aborted")
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
