package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"markestedt/devpanel/config"
	"markestedt/devpanel/logging"
	"markestedt/devpanel/platform"
	"markestedt/devpanel/storage"
	"markestedt/devpanel/systray"
)

func main() {
	// Load configuration
	cfg, configPath, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}
	dir := filepath.Dir(configPath)

	// Setup logging
	logger, logFile, err := logging.Setup(dir, cfg.Log)
	if err != nil {
		slog.Error("Failed to setup logging", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)
	defer logFile.Close()

	slog.Info("Configuration loaded", "path", configPath)

	if err := run(cfg, dir); err != nil {
		slog.Error("DevPanel error", "error", err)
		logFile.Close()
		os.Exit(1)
	}

	slog.Info("DevPanel stopped")
}

func run(cfg *config.Config, dir string) error {
	db, err := storage.Open(dir)
	if err != nil {
		return err
	}
	defer db.Close()

	agent, err := NewAgent(cfg, db, newHotkeys(), platform.NewClipboard(), platform.NewPanelWindow(nil))
	if err != nil {
		return err
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tray := systray.NewSystrayManager(agent, nil)
	agent.OnShortcutChange(tray.RefreshTooltip)

	go func() {
		select {
		case <-tray.WaitForQuit():
			cancel()
		case <-ctx.Done():
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- agent.Run(ctx)
		tray.Stop()
	}()

	// The tray owns the main thread until it quits
	tray.Run()
	cancel()

	return <-errCh
}
