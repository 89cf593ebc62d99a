package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/rebound/internal/config"
	"github.com/zeusync/rebound/internal/core/observability/log"
	"github.com/zeusync/rebound/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	printDefault := flag.Bool("print-default", false, "print the default config and exit")
	flag.Parse()

	if *printDefault {
		if err := config.Encode(os.Stdout, config.Default()); err != nil {
			fmt.Fprintln(os.Stderr, "rebound:", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "rebound:", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	app, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Server.ListenAndServe(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return app.Sandbox.Close()
	})

	app.Logger.Info("Rebound sandbox started",
		log.String("listen_addr", cfg.Server.ListenAddr),
		log.String("log_level", cfg.LogLevel().String()))

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		app.Logger.Error("Server exited", log.Error(err))
		return err
	}
	app.Logger.Info("Shutdown complete")
	return nil
}
