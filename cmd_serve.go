package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanpawarit/Chative-Customer-Service/api"
	configx "github.com/tanpawarit/Chative-Customer-Service/pkg/config"
)

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), withPort(port))
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides SERVER_PORT)")
	return cmd
}

type serveOption func(*api.Config)

func withPort(port int) serveOption {
	return func(c *api.Config) {
		if port > 0 {
			c.Port = port
		}
	}
}

func runServe(parent context.Context, opts ...serveOption) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverCfg, err := configx.New[api.Config]("SERVER")
	if err != nil {
		return fmt.Errorf("load server config: %w", err)
	}
	for _, opt := range opts {
		opt(serverCfg)
	}

	orch, err := buildOrchestrator(ctx, true)
	if err != nil {
		return err
	}

	return api.NewServer(orch, *serverCfg, log.Logger).Run(ctx)
}
