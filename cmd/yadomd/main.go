package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/yadom/internal/auth"
	"github.com/wheelibin/yadom/internal/config"
	"github.com/wheelibin/yadom/internal/dashboard"
	"github.com/wheelibin/yadom/internal/iot"
	"github.com/wheelibin/yadom/internal/relay"
	"github.com/wheelibin/yadom/internal/repos"
	"github.com/wheelibin/yadom/internal/theme"
	"github.com/wheelibin/yadom/internal/web"
	"gopkg.in/natefinch/lumberjack.v2"
)

const streamPath = "/api/stream"

var levels = map[string]log.Level{
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
	"warn":  log.WarnLevel,
	"error": log.ErrorLevel,
}

func main() {
	configFile := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: true,
		ReportCaller:    true,
	})

	// read the config file
	cfg, err := config.InitialiseConfig(*configFile)
	if err != nil {
		logger.Fatal("Error reading config", "err", err)
	}

	if lvl, ok := levels[strings.ToLower(cfg.Log.Level)]; ok {
		logger.SetLevel(lvl)
	}
	if cfg.Log.File != "" {
		logger.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename: cfg.Log.File,
			MaxAge:   3,
		}))
	}
	logger.Info("yadomd starting", "listen", cfg.Server.Listen, "proxy", cfg.API.UseProxy)

	db, err := repos.OpenDB(cfg.Storage.DBPath)
	if err != nil {
		logger.Fatal("Error opening database", "err", err)
	}
	defer db.Close()

	// create/wire up services
	tokens, err := repos.NewTokenRepo(logger, db)
	if err != nil {
		logger.Fatal("Error initialising token storage", "err", err)
	}

	api := iot.NewIotAPIService(logger, cfg.APIBaseURL(), tokens)
	api.SetStreamTimeout(cfg.Camera.StreamTimeout)

	events := web.NewEventServer()
	defer events.Close()

	dash := dashboard.NewDashboard(logger, api, tokens, events)

	relayOptions := relay.Options{
		Prefix:      "/api",
		GetTimeout:  cfg.Relay.GetTimeout,
		PostTimeout: cfg.Relay.PostTimeout,
		UserAgent:   cfg.Relay.UserAgent,
	}
	apiRelay, err := relay.NewRelay(logger, cfg.API.Upstream, relayOptions)
	if err != nil {
		logger.Fatal("Error creating relay", "err", err)
	}
	relayOptions.GetTimeout = cfg.Relay.StreamTimeout
	streamRelay := relay.NewStreamRelay(logger, streamPath, relayOptions)

	options := web.Options{PlaybackTimeout: cfg.Camera.PlaybackTimeout}
	if cfg.API.UseProxy {
		options.StreamPath = streamPath
	}
	server := web.NewServer(
		logger,
		dash,
		auth.NewOAuth(cfg.OAuth.ClientID, cfg.OAuth.AuthorizeURL, cfg.RedirectURI()),
		theme.NewThemeService(logger, cfg.UI.Theme, cfg.UI.GeoLocation),
		events,
		apiRelay,
		streamRelay,
		options,
	)

	httpServer := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start the refresh loop
	go dash.Run(ctx, cfg.Dashboard.RefreshInterval)

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", "err", err)
		}
	}()

	<-ctx.Done()

	// cleanup before exit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down", "err", err)
	}
	logger.Info("yadomd is closing")
}
