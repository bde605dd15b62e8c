package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hellodex/otcboard/api"
	"github.com/hellodex/otcboard/config"
	"github.com/hellodex/otcboard/logger"
	"github.com/hellodex/otcboard/server"
	"github.com/hellodex/otcboard/store"
	"github.com/hellodex/otcboard/template"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(logger.Console(os.Stderr)).With().Timestamp().Logger()
		boot.Error().Err(err).Msg("load config")
		return 1
	}

	log, closer, err := logger.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		boot := zerolog.New(logger.Console(os.Stderr)).With().Timestamp().Logger()
		boot.Error().Err(err).Str("file", cfg.Log.File).Msg("open log")
		return 1
	}
	defer closer.Close()

	client := api.NewClient(cfg.Api.Endpoint, log,
		api.WithTimeout(cfg.Api.Timeout),
		api.WithMaxTries(cfg.Api.MaxTries),
	)

	renderer, err := template.NewRenderer(cfg.Page.Template, cfg.Api.ProfileUrl, log)
	if err != nil {
		log.Error().Err(err).Send()
		return 1
	}

	srv := server.New(server.Options{
		ReadLimit:    cfg.Server.ReadLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Workers:      cfg.Server.Workers,
		QueueSize:    cfg.Server.QueueSize,
	}, client, renderer, store.NewSnapshot(cfg.Page.Snapshot, log), log).
		WithCatalog(store.NewCatalog(cfg.Catalog.TTL))

	if err := srv.LoadCatalog(ctx, client); err != nil {
		log.Warn().Err(err).Msg("payment catalog unavailable")
	}

	ln, err := server.Listen(cfg.Addr())
	if err != nil {
		log.Error().Err(err).Str("addr", cfg.Addr()).Msg("listen")
		return 1
	}

	if err := srv.Serve(ctx, ln); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return 1
	}
	log.Info().Msg("bye")
	return 0
}
