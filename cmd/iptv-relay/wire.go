package main

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/alorle/iptv-relay/config"
	"github.com/alorle/iptv-relay/internal/adapter/driven"
	"github.com/alorle/iptv-relay/internal/adapter/driver"
	"github.com/alorle/iptv-relay/internal/application"
)

// services are the application services built from one configuration.
type services struct {
	channels *application.ChannelService
	guide    *application.GuideService
	health   *application.HealthService
}

// buildServices creates the driven adapters and the services on top of
// them. Both correction tables are loaded here, so a broken table stops
// the process before it serves anything.
func buildServices(cfg *config.Config, logger *slog.Logger) (*services, error) {
	reader := driven.NewSourceReader(&http.Client{Timeout: cfg.Upstream.Timeout}, cfg.Upstream.UserAgent)

	store, err := driven.NewCorrectionFileStore(cfg.IPTV.Corrections, cfg.EPG.Corrections, cfg.ReloadTables)
	if err != nil {
		return nil, err
	}

	playlists := driven.NewM3UFetcher(reader, logger)
	guide := driven.NewXMLTVFetcher(cfg.EPG.Source, reader, logger)

	return &services{
		channels: application.NewChannelService(playlists, store, cfg.IPTV.Sources, logger),
		guide:    application.NewGuideService(guide, store, logger),
		health:   application.NewHealthService(store),
	}, nil
}

// newServer creates the HTTP server for svc. The write timeout leaves room
// for a full upstream fetch.
func newServer(cfg *config.Config, svc *services, logger *slog.Logger) (*http.Server, error) {
	swagger, err := driver.GetSwagger(version)
	if err != nil {
		return nil, err
	}

	handler := driver.SetupRoutes(driver.Dependencies{
		Channels: svc.channels,
		Guide:    svc.guide,
		Health:   svc.health,
		Swagger:  swagger,
		Limiter:  driver.NewLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst),
		Logger:   logger,
	})

	return &http.Server{
		Addr:         net.JoinHostPort(cfg.HTTP.Address, cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Upstream.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}, nil
}
