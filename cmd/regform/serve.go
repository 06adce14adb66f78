package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-regform/internal/metrics"
	"github.com/goliatone/go-regform/internal/server"
	"github.com/goliatone/go-regform/internal/tracing"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registration form and JSON API",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}
	cmd.Flags().String("addr", "", "listen address")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewProvider(a.cfg.Tracing, tracing.WithWriter(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	schema := a.schema()
	orch, err := a.orchestrator(schema, vanilla.WithStylesheet(server.PathAssets+"/"+vanilla.StylesheetName))
	if err != nil {
		return err
	}

	srv, err := server.New(ctx, orch, vanilla.AssetsFS(),
		server.WithLogger(a.logger),
		server.WithMetrics(m, reg),
		server.WithTracer(tp.Tracer()),
		server.WithRenderer(a.cfg.Renderer.Default),
		server.WithSecureCookies(a.cfg.Server.SecureCookies),
		server.WithClock(a.now),
	)
	if err != nil {
		return err
	}

	a.logger.Info("starting server",
		zap.String("addr", a.cfg.Server.Addr),
		zap.String("renderer", a.cfg.Renderer.Default),
		zap.String("theme", a.cfg.Theme.Name),
		zap.Bool("tracing", tp.Enabled()),
	)
	return srv.Run(ctx, a.cfg.Server.Addr, a.cfg.Server.ShutdownGrace)
}
