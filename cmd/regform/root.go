package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-regform/internal/config"
	"github.com/goliatone/go-regform/internal/logging"
	"github.com/goliatone/go-regform/pkg/orchestrator"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/tui"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
)

var version = "dev"

// app carries the state shared by every subcommand once the persistent
// pre-run has loaded configuration.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
	logger  *zap.Logger
	now     func() time.Time
	driver  tui.PromptDriver
}

func newRootCmd(opts ...func(*app)) *cobra.Command {
	a := &app{
		v:      config.NewViper(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:               "regform",
		Short:             "Registration form server and terminal prompt",
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./"+config.DefaultFile+")")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("password-reporting", "", "password issues to report: first or all")
	root.PersistentFlags().Bool("calendar-check", false, "reject impossible dates of birth")

	_ = a.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("validation.password_reporting", root.PersistentFlags().Lookup("password-reporting"))
	_ = a.v.BindPFlag("validation.calendar_check", root.PersistentFlags().Lookup("calendar-check"))

	root.AddCommand(
		a.serveCmd(),
		a.promptCmd(),
		a.schemaCmd(),
		a.optionsCmd(),
		a.validateCmd(),
		a.initConfigCmd(),
	)
	return root
}

func (a *app) load(*cobra.Command, []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("config loaded", zap.String("file", used))
	}
	return nil
}

func (a *app) schema() *registration.Schema {
	return registration.New(a.cfg.SchemaOptions()...)
}

// orchestrator registers both renderers against one schema. htmlOpts are
// appended to the vanilla renderer options.
func (a *app) orchestrator(schema *registration.Schema, htmlOpts ...vanilla.Option) (*orchestrator.Orchestrator, error) {
	if dir := a.cfg.Renderer.TemplatesDir; dir != "" {
		htmlOpts = append(htmlOpts, vanilla.WithTemplatesDir(dir))
	}
	html, err := vanilla.New(htmlOpts...)
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}

	tuiOpts := []tui.Option{
		tui.WithSchema(schema),
		tui.WithLogger(a.logger),
		tui.WithOutputFormat(a.cfg.OutputFormat()),
	}
	if a.driver != nil {
		tuiOpts = append(tuiOpts, tui.WithPromptDriver(a.driver))
	}

	registry := render.NewRegistry()
	registry.MustRegister(html)
	registry.MustRegister(tui.New(tuiOpts...))

	return orchestrator.New(
		orchestrator.WithSchema(schema),
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(a.cfg.Renderer.Default),
		orchestrator.WithDefaultTheme(a.cfg.Theme.Name, a.cfg.Theme.Variant),
		orchestrator.WithTokenOverrides(a.cfg.Theme.Tokens),
		orchestrator.WithClock(a.now),
		orchestrator.WithLogger(a.logger),
	), nil
}
