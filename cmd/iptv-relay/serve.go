package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := a.newLogger(cmd.OutOrStdout())

	logger.Info("starting iptv-relay",
		"version", version,
		"address", a.cfg.HTTP.Address,
		"port", a.cfg.HTTP.Port,
		"sources", a.cfg.IPTV.Sources,
		"guide_source", a.cfg.EPG.Source,
		"channel_corrections", a.cfg.IPTV.Corrections,
		"guide_corrections", a.cfg.EPG.Corrections,
		"reload_tables", a.cfg.ReloadTables,
		"log_level", a.cfg.LogLevel,
	)

	svc, err := buildServices(a.cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return err
	}

	server, err := newServer(a.cfg, svc, logger)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		logger.Error("failed to listen", "addr", server.Addr, "error", err)
		return err
	}

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}
