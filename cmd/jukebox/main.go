package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"jukebox/internal/bot"
	"jukebox/internal/config"
	"jukebox/internal/logging"
	"jukebox/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel, cfg.LogFile)
	log.Info().Msg("starting jukebox")

	store, err := storage.New(cfg.StoragePath, log)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := bot.New(cfg, store, log)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- b.Run(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info().Msg("jukebox exited cleanly")
	return nil
}
