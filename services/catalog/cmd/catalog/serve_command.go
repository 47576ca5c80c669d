package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/anime-catalog/internal/platform/analytics"
	"github.com/example/anime-catalog/internal/platform/httpserver"
	"github.com/example/anime-catalog/internal/platform/natsconn"
	"github.com/example/anime-catalog/internal/platform/run"
	"github.com/example/anime-catalog/services/catalog/internal/handlers"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer ctx.close()
			log := rt.logs.Logger("")
			if a := strings.TrimSpace(addr); a != "" {
				rt.cfg.Server.Addr = a
			}

			var (
				nc     *nats.Conn
				events *analytics.Publisher
			)
			if rt.cfg.NATS.URL != "" {
				var js nats.JetStreamContext
				nc, js, err = natsconn.JetStream(natsconn.OptionsFrom(rt.cfg, rt.logs.Logger("nats")))
				if err != nil {
					return err
				}
				defer func() { _ = nc.Drain() }()
				events = analytics.New(js, rt.logs.Logger("analytics"))
			}

			r := chi.NewRouter()
			httpserver.SetupRouter(r, httpserver.RouterConfig{
				ReadyFunc:          readyFunc(nc),
				CORSAllowedOrigins: rt.cfg.Server.CORSAllowedOrigins,
				Logger:             rt.logs.Logger("http"),
				Metrics:            rt.metrics,
			})
			handlers.Register(r, rt.catalog, events)

			srv := httpserver.New(httpserver.Options{Addr: rt.cfg.Server.Addr, Logger: log, Router: r})
			log.Info("catalog service configured",
				zap.String("upstream", rt.cfg.API.BaseURL),
				zap.Strings("sinks", rt.logs.Sinks()),
				zap.Bool("analytics", events != nil),
			)
			if code := run.New(log).Serve(cmd.Context(), srv.Start, srv.Shutdown); code != 0 {
				return fmt.Errorf("serve: exited with code %d", code)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides http_addr)")
	return cmd
}

func readyFunc(nc *nats.Conn) func() error {
	if nc == nil {
		return nil
	}
	return func() error {
		if !nc.IsConnected() {
			return errors.New("nats disconnected")
		}
		return nil
	}
}
